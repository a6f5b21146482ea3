package service

import (
	"context"
	"net/http"
	"store/db"
	storeHttp "store/http"
	"store/inventory"
	"store/message"
	"store/message/command"
	"store/message/event"
	"store/message/outbox"
	"store/orders"
	"store/payment"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
}

func New(
	redisClient *redis.Client,
	conn db.DB,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)
	commandBus := command.NewCommandBus(redisPublisher)

	inventoryRepo := db.NewInventoryRepository(&conn)
	processedCommandsRepo := db.NewProcessedCommandsRepository(&conn)
	orderRepo := db.NewOrderRepository(&conn)
	paymentRepo := db.NewPaymentRepository(&conn)
	productRepo := db.NewProductRepository(&conn)
	dataLakeRepo := db.NewEventRepository(&conn)

	ledger := inventory.NewLedger(inventoryRepo, eventBus)
	processor := inventory.NewProcessor(ledger, processedCommandsRepo)
	authorizer := payment.NewAuthorizer(paymentRepo, eventBus)
	coordinator := orders.NewCoordinator(orderRepo, productRepo, eventBus, commandBus)

	eventsHandler := event.NewHandler(processor, authorizer, coordinator, dataLakeRepo, eventBus)
	commandsHandler := command.NewHandler(processor)

	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewCommandProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		eventProcessorConfig,
		commandProcessorConfig,
		eventsHandler,
		commandsHandler,
		watermillLogger,
	)

	echoRouter := storeHttp.NewHttpRouter(
		commandBus,
		ledger,
		processor,
		coordinator,
		productRepo,
	)

	return Service{
		watermillRouter,
		echoRouter,
	}
}

func (s Service) Run(ctx context.Context) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// the HTTP server must not report healthy before the message router is ready
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(":8080")
		if err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
