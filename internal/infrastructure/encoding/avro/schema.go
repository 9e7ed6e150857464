package avro

// OrderCreatedSchema is the Avro schema for order-created events. The amount
// travels as a string so no precision is lost between services.
const OrderCreatedSchema = `{
	"type": "record",
	"name": "OrderCreated",
	"namespace": "crm.events",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "customer_id", "type": "string"},
		{"name": "total_amount", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "order_date", "type": "string"},
		{"name": "item_count", "type": "long"}
	]
}`
