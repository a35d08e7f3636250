package currency

import (
	"fmt"
	"math"
)

// SettlementCurrency - валюта, в которой шлюз фактически списывает деньги
const SettlementCurrency = "USD"

// usdRates - фиксированная таблица курсов валюта→USD (USD - pivot)
// Источник курсов вне зоны ответственности сервиса: таблица поставляется извне
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.09,
	"GBP": 1.27,
	"JPY": 0.0067,
	"CAD": 0.74,
	"AUD": 0.66,
}

// minorUnits - количество знаков после запятой для минорных единиц валюты
// Для валют вне таблицы используется дефолт 2
var minorUnits = map[string]int{
	"JPY": 0,
}

// LineItem представляет одну позицию замороженной корзины
type LineItem struct {
	ProductID string
	Quantity  int32
	// UnitAmount - цена за единицу в валюте UnitCurrency
	UnitAmount   float64
	UnitCurrency string
}

// Supported возвращает true, если для валюты есть курс в таблице
func Supported(code string) bool {
	_, ok := usdRates[code]
	return ok
}

// Round округляет сумму до минорных единиц валюты (2 знака для USD/EUR, 0 для JPY)
// Одно и то же правило обязано применяться и при отправке суммы в шлюз,
// и при отображении - иначе итоги визуально разойдутся
func Round(amount float64, code string) float64 {
	digits := 2
	if d, ok := minorUnits[code]; ok {
		digits = d
	}
	factor := math.Pow(10, float64(digits))
	return math.Round(amount*factor) / factor
}

// Convert конвертирует сумму из одной валюты в другую через USD-pivot
// Чистая функция без I/O; результат округляется до минорных единиц целевой валюты
func Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := usdRates[from]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", from)
	}
	toRate, ok := usdRates[to]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", to)
	}

	usd := amount * fromRate
	return Round(usd/toRate, to), nil
}

// NormalizeCart приводит позиции корзины в разных валютах к одной settlement-сумме
// Каждая позиция конвертируется и округляется отдельно, затем суммируется -
// так сумма на сервере совпадает с суммой, которую клиент показал пользователю
func NormalizeCart(items []LineItem, settlement string) (float64, error) {
	var total float64
	for _, item := range items {
		converted, err := Convert(item.UnitAmount, item.UnitCurrency, settlement)
		if err != nil {
			return 0, fmt.Errorf("line %s: %w", item.ProductID, err)
		}
		total += Round(converted*float64(item.Quantity), settlement)
	}
	return Round(total, settlement), nil
}
