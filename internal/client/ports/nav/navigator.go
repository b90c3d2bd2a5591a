// Package nav определяет интерфейс навигации слоя отображения.
package nav

import "context"

// Известные точки входа приложения.
const (
	PathLogin = "/login"
	PathHome  = "/"
)

// Navigator - побочный эффект перехода на другой экран.
// Реализуется слоем отображения; ядро только запрашивает переход.
type Navigator interface {
	NavigateTo(ctx context.Context, path string)
}

// Func адаптирует функцию к интерфейсу Navigator.
type Func func(ctx context.Context, path string)

// NavigateTo вызывает функцию.
func (f Func) NavigateTo(ctx context.Context, path string) {
	f(ctx, path)
}
