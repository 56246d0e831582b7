package api

import (
	"context"
	"time"

	"github.com/vytor/lingodeck/internal/services"
)

type Server struct {
	DeckService  services.DeckService
	NoteService  services.NoteService
	StudyService services.StudyService
	StatsService services.StatsService
	PresetNames  []string
	// Ready reports whether backing stores accept traffic. Nil means always ready.
	Ready func(ctx context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
