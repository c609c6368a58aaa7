package catalog

import (
	"context"
	"log/slog"

	"restaurandes/internal/domain/entity"
	"restaurandes/internal/domain/repository"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const restaurantsKey = "restaurants"

// fileSource reads the catalog from a YAML seed file:
//
//	restaurants:
//	  - id: cafe
//	    name: Café
//	    latitude: 4.6017
//	    ...
type fileSource struct {
	path    string
	decoder *Decoder
	logger  *slog.Logger
}

// NewFileSource creates a RestaurantSource backed by a YAML file.
func NewFileSource(path string, logger *slog.Logger) repository.RestaurantSource {
	return &fileSource{
		path:    path,
		decoder: NewDecoder(),
		logger:  logger,
	}
}

// FetchAll reads and decodes the whole file.
func (s *fileSource) FetchAll(ctx context.Context) ([]*entity.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return s.load(file.Provider(s.path))
}

// Watch reloads the file on every change until ctx is done.
func (s *fileSource) Watch(ctx context.Context, apply func(records []*entity.Restaurant)) error {
	provider := file.Provider(s.path)

	restaurants, err := s.load(provider)
	if err != nil {
		return err
	}
	apply(restaurants)

	watchErr := make(chan error, 1)
	err = provider.Watch(func(_ any, err error) {
		if err != nil {
			select {
			case watchErr <- err:
			default:
			}

			return
		}

		restaurants, err := s.load(provider)
		if err != nil {
			// Keep serving the last good catalog while the file is being edited.
			s.logger.Warn("Ignoring unreadable catalog file",
				slog.String("path", s.path),
				slog.Any("error", err),
			)

			return
		}
		apply(restaurants)
	})
	if err != nil {
		return errors.Wrapf(err, "watch %s", s.path)
	}
	defer func() {
		if err := provider.Unwatch(); err != nil {
			s.logger.Warn("Failed to stop catalog file watcher", slog.Any("error", err))
		}
	}()

	s.logger.Info("Watching catalog file", slog.String("path", s.path))

	select {
	case <-ctx.Done():
		return nil
	case err := <-watchErr:
		return errors.Wrapf(err, "watch %s", s.path)
	}
}

func (s *fileSource) load(provider *file.File) ([]*entity.Restaurant, error) {
	k := koanf.New(".")
	if err := k.Load(provider, yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read catalog file %s", s.path)
	}

	raw, ok := k.Get(restaurantsKey).([]any)
	if !ok && k.Exists(restaurantsKey) {
		return nil, errors.Errorf("catalog file %s: %q must be a list", s.path, restaurantsKey)
	}

	documents := make([]Document, 0, len(raw))
	for idx, item := range raw {
		data, ok := item.(map[string]any)
		if !ok {
			s.logger.Warn("Skipping malformed catalog entry", slog.Int("index", idx))

			continue
		}
		documents = append(documents, Document{Data: data})
	}

	restaurants, skipped := s.decoder.DecodeAll(documents)
	for _, err := range skipped {
		s.logger.Warn("Skipping malformed restaurant", slog.Any("error", err))
	}

	return restaurants, nil
}
