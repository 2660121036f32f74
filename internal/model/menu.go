package model

import (
	"sort"
	"time"
)

// MenuOption описывает платную опцию блюда (размер или топпинг).
type MenuOption struct {
	Name  string  `json:"name" bson:"name" validate:"required"`
	Price float64 `json:"price" bson:"price" validate:"min=0"`
}

// MenuItem описывает позицию меню.
type MenuItem struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name" validate:"required"`
	Price       float64      `json:"price" bson:"price" validate:"gt=0"`
	Image       string       `json:"image" bson:"image" validate:"required"`
	IsAvailable bool         `json:"isAvailable" bson:"isAvailable"`
	Category    string       `json:"category" bson:"category" validate:"required"`
	Toppings    []MenuOption `json:"toppings" bson:"toppings" validate:"dive"`
	Sizes       []MenuOption `json:"sizes" bson:"sizes" validate:"dive"`
	CreatedAt   time.Time    `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updatedAt"`
}

// Normalize заменяет отсутствующие списки опций пустыми.
func (m *MenuItem) Normalize() {
	if m.Toppings == nil {
		m.Toppings = []MenuOption{}
	}
	if m.Sizes == nil {
		m.Sizes = []MenuOption{}
	}
}

// Menu содержит меню целиком: категории и позиции.
type Menu struct {
	Categories []string   `json:"categories"`
	Items      []MenuItem `json:"items"`
}

// NewMenu собирает меню и выводит список категорий из позиций.
func NewMenu(items []MenuItem) *Menu {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		categories = append(categories, it.Category)
	}
	sort.Strings(categories)

	if items == nil {
		items = []MenuItem{}
	}
	return &Menu{Categories: categories, Items: items}
}

// Admin описывает учётную запись администратора.
type Admin struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"`
}

// WorkingHours задаёт часы работы бота в один день недели.
type WorkingHours struct {
	StartHour int `json:"startHour" bson:"startHour" validate:"min=0,max=24"`
	EndHour   int `json:"endHour" bson:"endHour" validate:"min=0,max=24,gtefield=StartHour"`
}

// WeekSchedule хранит расписание по дням; ключи совпадают с теми, что читает бот.
type WeekSchedule struct {
	Monday    WorkingHours `json:"Dushanba" bson:"Dushanba"`
	Tuesday   WorkingHours `json:"Seshanba" bson:"Seshanba"`
	Wednesday WorkingHours `json:"Chorshanba" bson:"Chorshanba"`
	Thursday  WorkingHours `json:"Payshanba" bson:"Payshanba"`
	Friday    WorkingHours `json:"Juma" bson:"Juma"`
	Saturday  WorkingHours `json:"Shanba" bson:"Shanba"`
	Sunday    WorkingHours `json:"Yakshanba" bson:"Yakshanba"`
}

// BotScheduleIdentifier задаёт ключ единственного документа расписания.
const BotScheduleIdentifier = "bot_schedule"

// BotSchedule содержит расписание работы бота и флаг экстренного отключения.
type BotSchedule struct {
	Schedule       WeekSchedule `json:"schedule" bson:"schedule"`
	IsEmergencyOff bool         `json:"isEmergencyOff" bson:"isEmergencyOff"`
	CreatedAt      time.Time    `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updatedAt"`
}
