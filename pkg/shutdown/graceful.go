// Package shutdown предоставляет функциональность для корректного завершения
// приложения по сигналам SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook - функция завершения отдельного компонента.
type Hook func(context.Context) error

// Wait блокирует выполнение до получения сигнала SIGINT или SIGTERM,
// затем параллельно выполняет все хуки в рамках заданного timeout.
// Возвращает ошибки хуков, успевших завершиться до истечения timeout.
func Wait(timeout time.Duration, hooks ...Hook) []error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	errCh := make(chan error, len(hooks))

	var wgp sync.WaitGroup
	for _, hook := range hooks {
		wgp.Add(1)
		go func(fn Hook) {
			defer wgp.Done()
			if err := fn(ctx); err != nil {
				errCh <- err
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errCh)
		var errs []error
		for err := range errCh {
			errs = append(errs, err)
		}
		return errs
	case <-ctx.Done():
		// Буфер канала вмещает все хуки, опоздавшие хуки не блокируются.
		return []error{ctx.Err()}
	}
}
