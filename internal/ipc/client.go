package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/inkhaven/scriptorium/internal/runtimepath"
)

// Client talks to a running window service over its unix socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client against the standard socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window service: %w (is the suite running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window service error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStats retrieves service statistics.
func (c *Client) GetStats() (*StatsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStats})
	if err != nil {
		return nil, err
	}

	var stats StatsData
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats data: %w", err)
	}

	return &stats, nil
}

// GetWindows retrieves every tracked window's geometry.
func (c *Client) GetWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetWindows})
	if err != nil {
		return nil, err
	}

	var windows WindowsData
	if err := json.Unmarshal(resp.Data, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}

	return &windows, nil
}

// ListLayouts retrieves saved layout names and the current selection.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListLayouts})
	if err != nil {
		return nil, err
	}

	var data LayoutsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse layouts data: %w", err)
	}

	return &data, nil
}

// ApplyLayout makes the named saved layout current and applies it to
// the live windows.
func (c *Client) ApplyLayout(layoutName string) error {
	payload, err := json.Marshal(ApplyLayoutPayload{LayoutName: layoutName})
	if err != nil {
		return fmt.Errorf("failed to marshal apply payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandApplyLayout, Payload: payload})
	return err
}

// SaveLayout persists the current layout, optionally under a new name.
func (c *Client) SaveLayout(layoutName string) error {
	payload, err := json.Marshal(SaveLayoutPayload{LayoutName: layoutName})
	if err != nil {
		return fmt.Errorf("failed to marshal save payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSaveLayout, Payload: payload})
	return err
}

// DeleteLayout removes the named saved layout.
func (c *Client) DeleteLayout(layoutName string) error {
	payload, err := json.Marshal(DeleteLayoutPayload{LayoutName: layoutName})
	if err != nil {
		return fmt.Errorf("failed to marshal delete payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandDeleteLayout, Payload: payload})
	return err
}

// Ping checks whether the service is responding.
func (c *Client) Ping() error {
	_, err := c.GetStats()
	return err
}
