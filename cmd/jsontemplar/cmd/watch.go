package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watchFiles вызывает run сразу и затем после каждого изменения любого из файлов.
// Следим за каталогами, а не за файлами: редакторы часто сохраняют через rename.
func watchFiles(ctx context.Context, files []string, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		if f == "" || f == "-" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("наблюдение за %s: %w", d, err)
		}
	}

	run()
	log.Printf("👀 Ожидание изменений (Ctrl+C для выхода)...")

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !targets[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("🔄 Изменён %s (%s)", filepath.Base(event.Name), event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ Ошибка наблюдения: %v", err)
		}
	}
}
