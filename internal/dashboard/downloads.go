package dashboard

import (
	"errors"

	"github.com/healinghorizons/dashboard/internal/download"
)

type downloadIndex interface {
	List() ([]download.Meta, error)
	Read(id string) ([]byte, download.Meta, error)
	Delete(id string) error
}

func (s *Service) index() (downloadIndex, error) {
	idx, ok := s.downloads.(downloadIndex)
	if !ok {
		return nil, newError(CodeStorageFailed, "downloads are not retained", nil)
	}
	return idx, nil
}

func mapDownloadErr(op string, err error) error {
	if errors.Is(err, download.ErrNotFound) {
		return newError(CodeNotFound, err.Error(), err)
	}
	if errors.Is(err, download.ErrInvalidID) {
		return newError(CodeValidation, err.Error(), err)
	}
	return newError(CodeStorageFailed, op, err)
}

// ListDownloads returns retained downloads, newest first.
func (s *Service) ListDownloads() ([]download.Meta, error) {
	idx, err := s.index()
	if err != nil {
		return nil, err
	}
	metas, err := idx.List()
	if err != nil {
		return nil, newError(CodeStorageFailed, "list downloads", err)
	}
	return metas, nil
}

// ReadDownload returns a retained download's bytes.
func (s *Service) ReadDownload(id string) ([]byte, download.Meta, error) {
	if err := s.requireNonEmpty(id, "id"); err != nil {
		return nil, download.Meta{}, err
	}
	idx, err := s.index()
	if err != nil {
		return nil, download.Meta{}, err
	}
	data, meta, err := idx.Read(id)
	if err != nil {
		return nil, download.Meta{}, mapDownloadErr("read download", err)
	}
	return data, meta, nil
}

// DeleteDownload removes a retained download.
func (s *Service) DeleteDownload(id string) error {
	if err := s.requireNonEmpty(id, "id"); err != nil {
		return err
	}
	idx, err := s.index()
	if err != nil {
		return err
	}
	if err := idx.Delete(id); err != nil {
		return mapDownloadErr("delete download", err)
	}
	return nil
}
