package kafka

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Brokers - список брокеров Kafka.
	// Пустой список означает, что публикация событий отключена.
	// Можно указать несколько брокеров через запятую: "broker1:9092,broker2:9092"
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// Topic - топик событий жизненного цикла checkout
	Topic string `env:"CHECKOUT_EVENTS_TOPIC" envDefault:"checkout.events"`
}

// Enabled возвращает true, если брокеры настроены и публикация включена
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}
