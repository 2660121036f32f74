package notify

import (
	"fmt"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

var statusTemplates = map[model.OrderStatus]string{
	model.OrderStatusAccepted:  "✅ Sizning %s buyurtmangiz qabul qilindi! Tayyor bo'lganda xabar beramiz.",
	model.OrderStatusDenied:    "❌ Uzr, sizning %s buyurtmangiz rad etildi. Sababini bilish uchun operator bilan bog'laning.",
	model.OrderStatusReady:     "✅ Sizning %s buyurtmangiz tayyor! Yetkazib berish/olib ketish uchun tez orada siz bilan bog'lanamiz.",
	model.OrderStatusCompleted: "✅ Sizning %s buyurtmangiz yakunlandi.",
}

// ShortRef возвращает короткую ссылку на заказ для клиента: "#" и последние 6 символов id.
func ShortRef(orderID string) string {
	if len(orderID) > 6 {
		orderID = orderID[len(orderID)-6:]
	}
	return "#" + orderID
}

// StatusMessage возвращает текст уведомления о смене статуса.
// Для статусов без шаблона второй результат равен false.
func StatusMessage(status model.OrderStatus, orderID string) (string, bool) {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(tmpl, ShortRef(orderID)), true
}
