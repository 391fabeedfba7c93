package constants

// Имя обменника
const (
	ExchangeName = "parser_exchange"
	ExchangeType = "direct"
)

// Ключи маршрутизации
const (
	RoutingKeyProcessedListings = "db.listings.save"
)
