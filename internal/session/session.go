package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/drakos74/h-clus/internal/api"
	"github.com/drakos74/h-clus/internal/cluster"
	"github.com/drakos74/h-clus/internal/data"
	"github.com/drakos74/h-clus/internal/metrics"
	"github.com/drakos74/h-clus/internal/storage"
	"github.com/drakos74/h-clus/internal/table"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the state of a session.
type State int

const (
	// Idle has no data loaded.
	Idle State = iota
	// DataLoaded has data but no dendrogram.
	DataLoaded
	// Clustered has data and a dendrogram.
	Clustered
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DataLoaded:
		return "data-loaded"
	case Clustered:
		return "clustered"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session serves the requests of a single client connection.
// It is not safe for concurrent use.
type Session struct {
	id         string
	channel    *api.Channel
	loader     table.Loader
	store      storage.Persistence
	metrics    *metrics.Metrics
	log        zerolog.Logger
	set        *data.Set
	dendrogram *cluster.Dendrogram
}

// New creates a new session on top of the given stream.
func New(rw io.ReadWriter, loader table.Loader, store storage.Persistence) *Session {
	id := uuid.New().String()
	return &Session{
		id:      id,
		channel: api.NewChannel(rw),
		loader:  loader,
		store:   store,
		metrics: metrics.Observer,
		log:     log.With().Str("session", id).Logger(),
	}
}

// WithLogger sets the log sink of the session.
func (s *Session) WithLogger(l zerolog.Logger) *Session {
	s.log = l.With().Str("session", s.id).Logger()
	return s
}

// WithMetrics sets the metrics the session reports to.
func (s *Session) WithMetrics(m *metrics.Metrics) *Session {
	s.metrics = m
	return s
}

// ID returns the unique id of the session.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state of the session.
func (s *Session) State() State {
	switch {
	case s.set == nil:
		return Idle
	case s.dendrogram == nil:
		return DataLoaded
	}
	return Clustered
}

// Reset discards the loaded data and dendrogram.
func (s *Session) Reset() {
	s.set = nil
	s.dendrogram = nil
}

// Serve handles requests until the connection fails or is closed.
func (s *Session) Serve(ctx context.Context) error {
	s.metrics.Open()
	defer s.metrics.Close()
	defer s.Reset()
	for {
		if err := s.Handle(ctx); err != nil {
			return err
		}
	}
}

// Handle reads and serves a single request.
// Only transport errors are returned, all other errors are sent to the client.
func (s *Session) Handle(ctx context.Context) error {
	code, err := s.channel.ReceiveInt()
	if err != nil {
		if errors.Is(err, api.InvalidRequestErr) {
			s.log.Warn().Err(err).Msg("invalid request code")
			s.metrics.Request("invalid", err)
			return s.channel.Send(api.InvalidRequest)
		}
		return err
	}

	request := api.Request(code)
	start := time.Now()
	s.log.Debug().Str("request", request.String()).Str("state", s.State().String()).Msg("started request")
	switch request {
	case api.LoadData:
		err = s.loadData(ctx)
	case api.Cluster:
		err = s.cluster()
	case api.LoadDendrogram:
		err = s.loadDendrogram()
	default:
		err = s.reject(request, fmt.Errorf("unknown request code %d: %w", code, api.InvalidRequestErr))
	}
	s.log.Debug().
		Str("request", request.String()).
		Str("state", s.State().String()).
		Float64("duration", time.Since(start).Seconds()).
		Msg("completed request")
	return err
}

// reject reports the error to the client as the single response of the request.
func (s *Session) reject(request api.Request, err error) error {
	s.metrics.Request(request.String(), err)
	s.log.Warn().Err(err).Str("request", request.String()).Msg("request failed")
	if errors.Is(err, api.InvalidRequestErr) {
		return s.channel.Send(api.InvalidRequest)
	}
	return s.channel.Send(err.Error())
}

// receiveString reads a string payload, converting a malformed value into a rejection.
func (s *Session) receiveString(request api.Request) (string, bool, error) {
	v, err := s.channel.ReceiveString()
	if errors.Is(err, api.InvalidRequestErr) {
		return "", false, s.reject(request, err)
	}
	return v, err == nil, err
}

func (s *Session) loadData(ctx context.Context) error {
	names, err := s.loader.Tables(ctx)
	if err != nil {
		return s.reject(api.LoadData, fmt.Errorf("could not list tables: %w", err))
	}
	if err := s.channel.Send(names); err != nil {
		return err
	}

	name, ok, err := s.receiveString(api.LoadData)
	if !ok {
		return err
	}

	set, err := s.loader.Load(ctx, name)
	if err != nil {
		return s.reject(api.LoadData, err)
	}
	s.set = set
	s.dendrogram = nil
	s.metrics.Request(api.LoadData.String(), nil)
	s.log.Info().Str("table", name).Int("examples", set.Size()).Msg("loaded table")
	return s.channel.Send(api.OK)
}

func (s *Session) cluster() error {
	// the payload is always consumed to keep the stream aligned
	depth, depthErr := s.channel.ReceiveInt()
	if depthErr != nil && !errors.Is(depthErr, api.InvalidRequestErr) {
		return depthErr
	}
	mode, modeErr := s.channel.ReceiveInt()
	if modeErr != nil && !errors.Is(modeErr, api.InvalidRequestErr) {
		return modeErr
	}
	if depthErr != nil {
		return s.reject(api.Cluster, depthErr)
	}
	if modeErr != nil {
		return s.reject(api.Cluster, modeErr)
	}

	if s.set == nil {
		s.metrics.Request(api.Cluster.String(), data.NoDataErr)
		return s.channel.Send(api.NoData)
	}

	linkage, err := cluster.ParseLinkage(mode)
	if err != nil {
		return s.reject(api.Cluster, fmt.Errorf("%v: %w", err, api.InvalidRequestErr))
	}

	start := time.Now()
	d, err := cluster.Build(s.set, depth, linkage)
	s.metrics.Clustering(linkage.String(), start)
	if err != nil {
		return s.reject(api.Cluster, err)
	}
	txt, err := d.Render(s.set)
	if err != nil {
		return s.reject(api.Cluster, err)
	}
	s.dendrogram = d
	s.metrics.Request(api.Cluster.String(), nil)
	s.log.Info().
		Str("table", s.set.Name()).
		Int("depth", depth).
		Str("linkage", linkage.String()).
		Float64("duration", time.Since(start).Seconds()).
		Msg("built dendrogram")

	if err := s.channel.Send(api.OK); err != nil {
		return err
	}
	if err := s.channel.Send(txt); err != nil {
		return err
	}

	name, ok, err := s.receiveString(api.Cluster)
	if !ok {
		return err
	}
	if err := cluster.Save(s.store, d, name); err != nil {
		s.log.Error().Err(err).Str("file", name).Msg("could not save dendrogram")
		return s.channel.Send(err.Error())
	}
	s.log.Info().Str("file", name).Msg("saved dendrogram")
	return s.channel.Send(api.OK)
}

func (s *Session) loadDendrogram() error {
	path, ok, err := s.receiveString(api.LoadDendrogram)
	if !ok {
		return err
	}

	if s.set == nil {
		s.metrics.Request(api.LoadDendrogram.String(), data.NoDataErr)
		return s.channel.Send(api.NoData)
	}

	d, err := cluster.Load(s.store, path)
	if err != nil {
		return s.reject(api.LoadDendrogram, err)
	}
	if d.Depth() > s.set.Size() {
		return s.reject(api.LoadDendrogram, fmt.Errorf("dendrogram depth %d exceeds the %d loaded examples: %w", d.Depth(), s.set.Size(), cluster.InvalidDepthErr))
	}
	txt, err := d.Render(s.set)
	if err != nil {
		return s.reject(api.LoadDendrogram, err)
	}
	if d.Examples() != s.set.Size() {
		s.log.Warn().
			Str("file", path).
			Str("table", s.set.Name()).
			Int("dendrogram-examples", d.Examples()).
			Int("table-examples", s.set.Size()).
			Msg("dendrogram does not cover the loaded table")
	}
	s.dendrogram = d
	s.metrics.Request(api.LoadDendrogram.String(), nil)
	s.log.Info().Str("file", path).Int("depth", d.Depth()).Msg("loaded dendrogram")

	if err := s.channel.Send(api.OK); err != nil {
		return err
	}
	return s.channel.Send(txt)
}

// NewHandler creates the connection handler that serves every connection with its own session.
func NewHandler(loader table.Loader, store storage.Persistence, m *metrics.Metrics, l zerolog.Logger) func(ctx context.Context, conn net.Conn) error {
	return func(ctx context.Context, conn net.Conn) error {
		s := New(conn, loader, store).
			WithMetrics(m).
			WithLogger(l.With().Str("remote", conn.RemoteAddr().String()).Logger())
		return s.Serve(ctx)
	}
}
