package sync

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopmonkeyus/go-common/logger"

	"github.com/syssam/scaffold/compiler/load"
)

// DefaultInterval is the poll interval of the watch loop.
const DefaultInterval = time.Second

// Waiter blocks until the next poll is due or ctx is done.
type Waiter interface {
	Wait(ctx context.Context) error
}

// IntervalWaiter waits a fixed interval.
type IntervalWaiter struct {
	Interval time.Duration
}

// Wait implements the Waiter interface.
func (w IntervalWaiter) Wait(ctx context.Context) error {
	d := w.Interval
	if d <= 0 {
		d = DefaultInterval
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NotifyWaiter waits a fixed interval but wakes up early when a file is
// created in or renamed into the watched directory.
type NotifyWaiter struct {
	IntervalWaiter
	watcher *fsnotify.Watcher
}

// NewNotifyWaiter watches dir. The caller must Close the waiter.
func NewNotifyWaiter(dir string, interval time.Duration) (*NotifyWaiter, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &NotifyWaiter{IntervalWaiter: IntervalWaiter{Interval: interval}, watcher: w}, nil
}

// Wait implements the Waiter interface.
func (w *NotifyWaiter) Wait(ctx context.Context) error {
	d := w.Interval
	if d <= 0 {
		d = DefaultInterval
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return w.IntervalWaiter.Wait(ctx)
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				return nil
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.IntervalWaiter.Wait(ctx)
			}
			return err
		}
	}
}

// Close stops watching the directory.
func (w *NotifyWaiter) Close() error {
	return w.watcher.Close()
}

// Delta returns the names of current that are not in known, in the order
// of current.
func Delta(known, current []string) []string {
	var added []string
	for _, name := range current {
		if !slices.Contains(known, name) {
			added = append(added, name)
		}
	}
	return added
}

// Watcher reruns the driver whenever new migration sources appear.
type Watcher struct {
	Driver *Driver
	Dir    string
	Waiter Waiter
	Logger logger.Logger
	// OnPass is called with the result of every pass that ran.
	OnPass func(added []string, res *Result)

	known []string
}

// Known returns the file names observed by the last poll.
func (w *Watcher) Known() []string { return w.known }

// Run polls until ctx is done. The sources present when Run is called
// form the initial known set. Failed passes are logged and do not stop
// the loop.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Logger.WithPrefix("[watch]")
	w.known = load.Basenames(w.Dir)
	log.Info("watching %s for new migrations", w.Dir)
	for {
		if err := w.Waiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				log.Debug("context done, stopping watch")
				return nil
			}
			log.Warn("waiting for changes: %s", err)
			continue
		}
		w.Poll(ctx)
	}
}

// Poll compares the current sources against the known set and runs a pass
// if new ones appeared. It returns the new names.
func (w *Watcher) Poll(ctx context.Context) []string {
	current := load.Basenames(w.Dir)
	added := Delta(w.known, current)
	if len(added) > 0 {
		log := w.Logger.WithPrefix("[watch]")
		for _, name := range added {
			log.Info("new migration %s", name)
		}
		res, err := w.Driver.Run(ctx, w.Dir)
		switch {
		case errors.Is(err, load.ErrSourceDirMissing):
			log.Warn("%s", err)
		case err != nil:
			log.Error("sync failed: %s", err)
		}
		if res != nil {
			log.Info("%s", res)
			if w.OnPass != nil {
				w.OnPass(added, res)
			}
		}
	}
	w.known = current
	return added
}
