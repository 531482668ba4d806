package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/inkhaven/scriptorium/internal/app"
	"github.com/inkhaven/scriptorium/internal/runtimepath"
)

// Server answers IPC requests against one application context.
type Server struct {
	socketPath   string
	listener     net.Listener
	ctx          *app.Context
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server bound to the standard socket path. Any
// stale socket from a previous run is removed.
func NewServer(ctx *app.Context) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctx:        ctx,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for connections. The socket is restricted to
// the owning user.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("ipc: server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("ipc: accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("ipc: read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("ipc: failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("ipc: failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStats:
		return s.handleGetStats()
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandListLayouts:
		return s.handleListLayouts()
	case CommandApplyLayout:
		return s.handleApplyLayout(req.Payload)
	case CommandSaveLayout:
		return s.handleSaveLayout(req.Payload)
	case CommandDeleteLayout:
		return s.handleDeleteLayout(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStats() *Response {
	layoutStats := s.ctx.Layouts.Stats()
	registryStats := s.ctx.Registry.Statistics()

	stats := StatsData{
		CurrentLayoutName:     layoutStats.CurrentLayoutName,
		TotalSavedLayouts:     layoutStats.TotalSavedLayouts,
		TotalWindowsInCurrent: layoutStats.TotalWindowsInCurrent,
		AutoSaveEnabled:       layoutStats.AutoSaveEnabled,
		OpenWindows:           registryStats.TotalOpenWindows,
		VisibleWindows:        s.ctx.Geometry.VisibleCount(),
		UptimeSeconds:         int64(time.Since(s.startTime).Seconds()),
	}

	resp, _ := NewOKResponse(stats)
	return resp
}

func (s *Server) handleGetWindows() *Response {
	ids := s.ctx.Geometry.WindowIDs()
	infos := make([]WindowInfo, 0, len(ids))
	for _, id := range ids {
		w, ok := s.ctx.Geometry.Window(id)
		if !ok {
			continue
		}
		infos = append(infos, WindowInfo{
			ID:          w.ID,
			Title:       w.Title,
			X:           w.X,
			Y:           w.Y,
			Width:       w.Width,
			Height:      w.Height,
			IsVisible:   w.IsVisible,
			IsMinimized: w.IsMinimized,
			IsMaximized: w.IsMaximized,
			ZIndex:      w.ZIndex,
		})
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

func (s *Server) handleListLayouts() *Response {
	data := LayoutsData{Layouts: s.ctx.Bridge.AvailableLayouts()}
	if current, ok := s.ctx.Layouts.CurrentLayout(); ok {
		data.CurrentLayout = current.Name
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleApplyLayout(payload json.RawMessage) *Response {
	var req ApplyLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid apply payload: %v", err))
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}

	if err := s.ctx.Bridge.LoadLayout(req.LayoutName); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to apply layout: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSaveLayout(payload json.RawMessage) *Response {
	var req SaveLayoutPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid save payload: %v", err))
		}
	}

	if err := s.ctx.Bridge.SaveCurrentLayout(req.LayoutName); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to save layout: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleDeleteLayout(payload json.RawMessage) *Response {
	var req DeleteLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid delete payload: %v", err))
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}

	if err := s.ctx.Bridge.DeleteLayout(req.LayoutName); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to delete layout: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the server and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
