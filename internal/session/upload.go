package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"document-rag-client/internal/models"
	"document-rag-client/internal/rag"
)

type uploadCoordinator struct {
	backend   Backend
	mutate    func(func(st *state) bool)
	sessionID string
}

func (u *uploadCoordinator) upload(ctx context.Context, f *File) error {
	if !f.selected() {
		return newValidationError(NoFileSelected)
	}

	var gen, token uint64
	u.mutate(func(st *state) bool {
		st.log.Clear()
		st.document = models.UploadingDocument(f.Name, f.Pages)
		st.token++
		st.pending = false
		st.uploadGen++
		gen, token = st.uploadGen, st.token
		return true
	})
	log.Info().Str("session_id", u.sessionID).Str("file", f.Name).Int64("bytes", f.Size).
		Uint64("token", token).Msg("Uploading document")

	resp, err := u.send(ctx, f)

	u.mutate(func(st *state) bool {
		if st.uploadGen != gen {
			log.Debug().Str("session_id", u.sessionID).Str("file", f.Name).Msg("Discarding superseded upload result")
			return false
		}
		if err != nil {
			st.document = models.FailedDocument(f.Name, f.Pages, err.Error())
			return true
		}
		st.document = models.ReadyDocument(f.Name, f.Pages, resp.Chunks, resp.Message)
		return true
	})

	if err != nil {
		log.Error().Err(err).Str("kind", errorKind(err)).Str("session_id", u.sessionID).Str("file", f.Name).
			Msg("Upload failed")
		return nil
	}
	log.Info().Str("session_id", u.sessionID).Str("file", f.Name).Int("chunks", resp.Chunks).Msg("Document ready")
	return nil
}

func (u *uploadCoordinator) send(ctx context.Context, f *File) (*rag.UploadResponse, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return u.backend.UploadPDF(ctx, f.Name, rc)
}
