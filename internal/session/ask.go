package session

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"document-rag-client/internal/models"
)

type askCoordinator struct {
	backend   Backend
	mutate    func(func(st *state) bool)
	sessionID string
}

func (a *askCoordinator) ask(ctx context.Context, question string) error {
	text := strings.TrimSpace(question)
	if text == "" {
		return newValidationError(EmptyQuestion)
	}

	var token uint64
	busy := false
	a.mutate(func(st *state) bool {
		if st.pending {
			busy = true
			return false
		}
		st.log.Append(models.RoleUser, text, "")
		st.pending = true
		st.token++
		token = st.token
		return true
	})
	if busy {
		return newValidationError(RequestInProgress)
	}
	log.Debug().Str("session_id", a.sessionID).Uint64("token", token).Msg("Asking question")

	resp, err := a.backend.Ask(ctx, text)

	stale := false
	a.mutate(func(st *state) bool {
		if st.token != token {
			stale = true
			return false
		}
		st.pending = false
		if err != nil {
			st.log.Append(models.RoleSystemError, models.AskFailedMessage, "")
		} else {
			st.log.Append(models.RoleAssistant, resp.Answer, resp.Sources)
		}
		return true
	})

	switch {
	case stale:
		log.Debug().Str("session_id", a.sessionID).Uint64("token", token).Msg("Discarding stale answer")
	case errors.Is(err, context.Canceled):
		log.Debug().Str("session_id", a.sessionID).Uint64("token", token).Msg("Ask canceled")
	case err != nil:
		log.Error().Err(err).Str("kind", errorKind(err)).Str("session_id", a.sessionID).Uint64("token", token).
			Msg("Ask failed")
	}
	return nil
}
