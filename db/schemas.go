package db

var schema = `
CREATE TABLE IF NOT EXISTS products (
	product_id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	price_amount BIGINT NOT NULL,
	price_currency VARCHAR(3) NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory (
	product_id VARCHAR(255) PRIMARY KEY,
	quantity INT NOT NULL CHECK (quantity >= 0),
	version INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS stock_command_results (
	dedup_key VARCHAR(255) PRIMARY KEY,
	product_id VARCHAR(255) NOT NULL,
	quantity INT NOT NULL DEFAULT 0,
	rejected BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS orders (
	order_id UUID PRIMARY KEY,
	status VARCHAR(32) NOT NULL,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	payment_id UUID PRIMARY KEY,
	order_id UUID NOT NULL UNIQUE,
	amount BIGINT NOT NULL,
	currency VARCHAR(3) NOT NULL,
	status VARCHAR(32) NOT NULL,
	authorized_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMP NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
