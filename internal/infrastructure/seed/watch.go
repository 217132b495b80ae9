package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-notifier/internal/domain/repository"
)

// reloadDelay agrupa los eventos de un mismo guardado (truncate + write, o temporal + rename)
// en una sola recarga.
const reloadDelay = 100 * time.Millisecond

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch recarga el store cada vez que path cambia, incluido el guardado atómico
// (archivo temporal renombrado sobre path). Una recarga fallida se registra y el store
// conserva el contenido anterior. Bloquea hasta que ctx se cancela.
func Watch(ctx context.Context, path string, store repository.StockStore, log zerolog.Logger) error {
	target := filepath.Clean(path)
	dir := filepath.Dir(target)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("seed: crear watcher: %w", err)
	}
	defer watcher.Close()

	// Se vigila el directorio: un rename sobre path reemplaza el inodo y la vigilancia
	// sobre el archivo se perdería.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("seed: vigilar %s: %w", dir, err)
	}
	log.Info().Str("path", target).Msg("vigilando archivo de seed")

	pending := time.NewTimer(time.Hour)
	pending.Stop()
	defer pending.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&reloadOps == 0 {
				continue
			}
			pending.Reset(reloadDelay)

		case <-pending.C:
			reload(target, store, log)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("error del watcher de seed")
		}
	}
}

func reload(path string, store repository.StockStore, log zerolog.Logger) {
	items, err := Load(path)
	if err == nil {
		err = store.Set(items)
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("recarga de seed fallida, se conserva el stock anterior")
		return
	}
	log.Info().Str("path", path).Int("items", len(items)).Msg("stock recargado")
}
