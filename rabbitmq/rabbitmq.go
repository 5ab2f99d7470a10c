package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/assethub/assethub.go/db/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encode buffers between publishes. Under sequential load
// there is a single buffer in the pool, concurrent publishers make it
// grow as needed.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

// Client publishes committed transfers to a fanout exchange so external
// consumers (audit, notifications) can follow the transaction log without
// polling the database.
type Client interface {
	PublishTransaction(ctx context.Context, txn *models.Transaction) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn           *amqp.Connection
	publishChannel *amqp.Channel

	logger *lecho.Logger

	transactionExchange string
}

type ClientOption = func(client *DefaultClient)

func WithTransactionExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.transactionExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial connects to rabbitmq, retrying with exponential backoff, and
// declares the transaction exchange.
func Dial(uri string, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		logger:              lecho.New(os.Stdout, lecho.WithLevel(log.INFO), lecho.WithTimestamp()),
		transactionExchange: "assethub_transactions",
	}
	for _, opt := range options {
		opt(client)
	}

	err := backoff.Retry(func() error {
		conn, err := amqp.Dial(uri)
		if err != nil {
			client.logger.Warnf("Failed to connect to rabbitmq, retrying: %v", err)
			return err
		}
		client.conn = conn
		return nil
	}, backoff.NewExponentialBackOff())
	if err != nil {
		return nil, err
	}

	publishChannel, err := client.conn.Channel()
	if err != nil {
		return nil, err
	}
	client.publishChannel = publishChannel

	err = publishChannel.ExchangeDeclare(
		client.transactionExchange,
		// fanout so every audit consumer gets every entry
		"fanout",
		// durable
		true,
		// auto-deleted
		false,
		// internal
		false,
		// no-wait
		false,
		// arguments
		nil,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (client *DefaultClient) PublishTransaction(ctx context.Context, txn *models.Transaction) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := json.NewEncoder(payload).Encode(txn); err != nil {
		return err
	}

	return client.publishChannel.PublishWithContext(ctx,
		client.transactionExchange,
		// one routing key per asset so consumers can bind selectively
		// if the exchange type is ever changed from fanout
		txn.AssetSymbol,
		// mandatory
		false,
		// immediate
		false,
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			Body:         payload.Bytes(),
		},
	)
}

func (client *DefaultClient) Close() error {
	return client.conn.Close()
}
