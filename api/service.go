package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/ingest"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Service exposes the single ingestion endpoint over HTTP.
type Service struct {
	logger log.Logger
	seq    *ingest.Sequencer
	srv    *http.Server
}

func NewService(seq *ingest.Sequencer, addr string, logger log.Logger) *Service {
	s := &Service{
		logger: logger.With("module", "api"),
		seq:    seq,
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST("/", s.handleIngest)
	s.srv = &http.Server{Addr: addr, Handler: engine}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Service) Start() error {
	s.logger.Info("api listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests before returning.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Service) handleIngest(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{"client_error", types.ErrBadEnvelope.Description})
		return
	}
	res, err := s.seq.Process(c.Request.Context(), raw, c.ClientIP())
	if err != nil {
		s.reject(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Service) reject(c *gin.Context, err error) {
	if errors.Is(err, types.ErrDuplicate) {
		c.JSON(http.StatusTooEarly, errorBody{"client_error", types.ErrDuplicate.Description})
		return
	}
	var ce *types.ClientError
	if errors.As(err, &ce) {
		c.JSON(http.StatusBadRequest, errorBody{"client_error", ce.Description})
		return
	}
	s.logger.Error("ingest fail", "err", err)
	c.JSON(http.StatusInternalServerError, errorBody{"server_error", "server error"})
}
