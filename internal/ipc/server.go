package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"neuralplay/internal/analysis"
	"neuralplay/internal/commands"
	"neuralplay/internal/daemon"
	"neuralplay/internal/library"
	"neuralplay/internal/logging"
	"neuralplay/internal/logs"
	"neuralplay/internal/playqueue"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("NeuralPlay", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	consumer := s.daemon.Consumer()
	*resp = StatusResponse{
		Running:       s.daemon.Running(),
		PID:           os.Getpid(),
		LockPath:      s.daemon.LockPath(),
		LibraryDBPath: s.daemon.Library().Path(),
		Player:        s.daemon.Controller().State(),
		Analysis: AnalysisStatus{
			State:        consumer.State(),
			Detail:       consumer.ErrorDetail(),
			SceneCount:   len(consumer.Scenes()),
			ObjectCount:  len(consumer.Objects()),
			EmotionCount: len(consumer.Emotions()),
		},
		Queue: s.daemon.Queue(),
	}
	return nil
}

func (s *service) Load(req LoadRequest, resp *LoadResponse) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("load requires a path")
	}
	if err := s.daemon.Load(s.ctx, req.Path); err != nil {
		return err
	}
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) Command(req CommandRequest, _ *CommandResponse) error {
	origin := commands.Origin(req.Origin)
	if origin == "" {
		origin = commands.OriginMenu
	}
	return s.daemon.Dispatch(commands.Command(req.Command), origin)
}

func (s *service) Key(req KeyRequest, _ *CommandResponse) error {
	return s.daemon.HandleKey(req.Key)
}

func (s *service) Seek(req SeekRequest, resp *PlayerResponse) error {
	s.daemon.Controller().Seek(req.Seconds)
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) Skip(req SkipRequest, resp *PlayerResponse) error {
	s.daemon.Controller().Skip(req.Delta)
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) SetRate(req RateRequest, resp *PlayerResponse) error {
	s.daemon.Controller().SetRate(req.Rate)
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) SetVolume(req VolumeRequest, resp *PlayerResponse) error {
	s.daemon.Controller().SetVolume(req.Volume)
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) SetDuration(req DurationRequest, resp *PlayerResponse) error {
	s.daemon.Controller().SetDuration(req.Seconds)
	resp.Player = s.daemon.Controller().State()
	return nil
}

func (s *service) RequestClip(_ ClipRequest, resp *ClipResponse) error {
	result, err := s.daemon.RequestClip(s.ctx)
	if err != nil {
		return err
	}
	resp.Result = result
	return nil
}

func (s *service) ClipStatus(_ ClipRequest, resp *ClipResponse) error {
	result, ok := s.daemon.Controller().ClipResult()
	if !ok {
		return errors.New("no clip has been requested")
	}
	resp.Result = result
	return nil
}

func (s *service) Chapters(_ ChaptersRequest, resp *ChaptersResponse) error {
	resp.Chapters = s.daemon.Consumer().Chapters()
	return nil
}

func (s *service) Highlights(req HighlightsRequest, resp *HighlightsResponse) error {
	count := req.Count
	if count <= 0 {
		count = 5
	}
	resp.Scenes = s.daemon.Consumer().Highlights(count)
	return nil
}

func (s *service) Labels(req LabelsRequest, resp *LabelsResponse) error {
	cat := analysis.Category(req.Category)
	switch cat {
	case analysis.CategoryObjects, analysis.CategoryEmotions:
	default:
		return fmt.Errorf("category %q carries no labels", req.Category)
	}
	resp.Hits = s.daemon.Consumer().LabelHits(cat)
	return nil
}

func (s *service) SkipShortcut(req SkipShortcutRequest, resp *SkipShortcutResponse) error {
	var target float64
	switch req.Target {
	case "intro":
		target = s.daemon.Consumer().SkipIntroTarget()
	case "near_end":
		target = s.daemon.Consumer().NearEndTarget()
	default:
		return fmt.Errorf("unknown skip target %q", req.Target)
	}
	s.daemon.Controller().Seek(target)
	resp.Position = s.daemon.Controller().State().Position
	return nil
}

func (s *service) Caption(req CaptionRequest, resp *CaptionResponse) error {
	position := s.daemon.Controller().State().Position
	segment := s.daemon.Resolver().Resolve(position, req.Offset)
	if segment == nil {
		*resp = CaptionResponse{}
		return nil
	}
	*resp = CaptionResponse{Active: true, Start: segment.Start, End: segment.End, Text: segment.Text}
	return nil
}

func (s *service) Subtitles(req SubtitlesRequest, resp *SubtitlesResponse) error {
	if req.Clear {
		s.daemon.ClearExternalSubtitles()
		return nil
	}
	if err := s.daemon.LoadExternalSubtitles(req.Path); err != nil {
		return err
	}
	resp.Segments = s.daemon.Resolver().ExternalCount()
	return nil
}

func (s *service) ExportTranscript(req ExportTranscriptRequest, resp *ExportTranscriptResponse) error {
	path, err := s.daemon.ExportTranscript(req.Format)
	if err != nil {
		return err
	}
	resp.Path = path
	return nil
}

func (s *service) SearchTranscript(req SearchRequest, resp *SearchResponse) error {
	matches, err := s.daemon.Backend().SearchTranscript(s.ctx, req.Query)
	if err != nil {
		return err
	}
	resp.Matches = matches
	return nil
}

func (s *service) Ask(req AskRequest, resp *AskResponse) error {
	path := s.daemon.Controller().State().Source.ID
	if path == "" {
		return errors.New("no media item is loaded")
	}
	var (
		answer string
		err    error
	)
	if req.Summarize {
		answer, err = s.daemon.Backend().Summarize(s.ctx, path)
	} else {
		answer, err = s.daemon.Backend().AskQuestion(s.ctx, req.Query, path)
	}
	if err != nil {
		return err
	}
	resp.Answer = answer
	return nil
}

func (s *service) Catalog(req CatalogRequest, resp *ItemsResponse) error {
	items, err := s.daemon.Library().Catalog(s.ctx, library.CatalogQuery{
		Sort:   library.SortOrder(req.Sort),
		Filter: req.Filter,
	})
	if err != nil {
		return err
	}
	resp.Items = items
	return nil
}

func (s *service) Collection(req CollectionRequest, resp *ItemsResponse) error {
	var (
		items []library.Item
		err   error
	)
	switch req.Collection {
	case "history":
		items, err = s.daemon.Library().History(s.ctx)
	case "favorites":
		items, err = s.daemon.Library().Favorites(s.ctx)
	case "watch_later":
		items, err = s.daemon.Library().WatchLater(s.ctx)
	case "recent":
		items, err = s.daemon.Library().RecentFiles(s.ctx)
	default:
		return fmt.Errorf("unknown collection %q", req.Collection)
	}
	if err != nil {
		return err
	}
	resp.Items = items
	return nil
}

func (s *service) Toggle(req ToggleRequest, resp *ToggleResponse) error {
	item := library.NewItem(req.Path)
	var (
		present bool
		err     error
	)
	switch req.Collection {
	case "favorites":
		present, err = s.daemon.Library().ToggleFavorite(s.ctx, item)
	case "watch_later":
		present, err = s.daemon.Library().ToggleWatchLater(s.ctx, item)
	default:
		return fmt.Errorf("collection %q does not support toggling", req.Collection)
	}
	if err != nil {
		return err
	}
	resp.Present = present
	return nil
}

func (s *service) Remove(req RemoveRequest, _ *RemoveResponse) error {
	return s.daemon.Library().RemoveFromCatalog(s.ctx, req.Path)
}

func (s *service) Scan(req ScanRequest, resp *ScanResponse) error {
	paths, err := s.daemon.ScanFolder(s.ctx, req.Root)
	if err != nil {
		return err
	}
	resp.Paths = paths
	return nil
}

func (s *service) PlaylistCreate(req PlaylistCreateRequest, resp *PlaylistCreateResponse) error {
	pl, err := s.daemon.Library().CreatePlaylist(s.ctx, req.Name)
	if err != nil {
		return err
	}
	resp.Playlist = *pl
	return nil
}

func (s *service) PlaylistEdit(req PlaylistEditRequest, _ *PlaylistEditResponse) error {
	if req.Remove {
		return s.daemon.Library().RemoveFromPlaylist(s.ctx, req.ID, req.Path)
	}
	return s.daemon.Library().AddToPlaylist(s.ctx, req.ID, library.NewItem(req.Path))
}

func (s *service) PlaylistList(_ PlaylistListRequest, resp *PlaylistListResponse) error {
	playlists, err := s.daemon.Library().Playlists(s.ctx)
	if err != nil {
		return err
	}
	resp.Playlists = playlists
	return nil
}

func (s *service) PlaylistPlay(req PlaylistPlayRequest, resp *QueueResponse) error {
	if err := s.daemon.PlayPlaylist(s.ctx, req.ID, req.StartIndex); err != nil {
		return err
	}
	resp.Queue = s.daemon.Queue()
	return nil
}

func (s *service) Queue(req QueueRequest, resp *QueueResponse) error {
	var err error
	switch req.Action {
	case "next":
		err = s.daemon.QueueNext()
	case "previous":
		err = s.daemon.QueuePrevious()
	case "shuffle":
		err = s.daemon.SetShuffle(req.Shuffle)
	case "repeat":
		err = s.daemon.SetRepeat(playqueue.RepeatMode(req.Repeat))
	case "clear":
		s.daemon.ClearQueue()
	case "status", "":
	default:
		return fmt.Errorf("unknown queue action %q", req.Action)
	}
	if err != nil {
		return err
	}
	resp.Queue = s.daemon.Queue()
	return nil
}

func (s *service) Voice(req VoiceRequest, _ *VoiceResponse) error {
	return s.daemon.SetVoiceEnabled(req.Enabled)
}

func (s *service) ShellEvents(_ ShellEventsRequest, resp *ShellEventsResponse) error {
	resp.Events = s.daemon.DrainShellEvents()
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	if err := s.daemon.Notifier().TestNotification(s.ctx); err != nil {
		return err
	}
	resp.Sent = true
	return nil
}

func (s *service) Feature(req FeatureRequest, resp *FeatureResponse) error {
	cat := analysis.Category(req.Category)
	switch cat {
	case analysis.CategoryScenes, analysis.CategoryObjects, analysis.CategoryEmotions:
	default:
		return fmt.Errorf("unknown analysis category %q", req.Category)
	}
	s.daemon.Consumer().SetCategoryEnabled(cat, req.Enabled)
	resp.Enabled = s.daemon.Consumer().CategoryEnabled(cat)
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	result, err := logs.Tail(s.daemon.LogPath(), req.Offset, req.Limit)
	if err != nil {
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	resp.Stopping = true
	go func() {
		// Let the response flush before tearing the socket down.
		time.Sleep(100 * time.Millisecond)
		s.daemon.Stop()
	}()
	return nil
}
