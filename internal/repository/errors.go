package repository

import "errors"

var (
	// ErrOrderNotFound возвращается, если заказ с указанным id отсутствует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSnapshotNotFound возвращается, если аналитика ещё ни разу не рассчитывалась.
	ErrSnapshotNotFound = errors.New("analytics snapshot not found")
	// ErrMenuItemNotFound возвращается, если позиция меню не найдена.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrAdminNotFound возвращается, если администратор не найден.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrAdminExists возвращается при попытке занять существующий логин администратора.
	ErrAdminExists = errors.New("admin already exists")
	// ErrScheduleNotFound возвращается, если расписание бота ещё не сохранялось.
	ErrScheduleNotFound = errors.New("bot schedule not found")
)
