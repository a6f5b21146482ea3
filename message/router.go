package message

import (
	"store/message/command"
	"store/message/event"
	"store/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	publisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	commandProcessorConfig cqrs.CommandProcessorConfig,
	eventHandler event.Handler,
	commandHandler command.Handler,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
	if err != nil {
		panic(err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	commandProcessor, err := cqrs.NewCommandProcessorWithConfig(router, commandProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = commandProcessor.AddHandlers(
		cqrs.NewCommandHandler(
			"DecreaseStock",
			commandHandler.DecreaseStock,
		),
		cqrs.NewCommandHandler(
			"UpdateStock",
			commandHandler.UpdateStock,
		),
	)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"ReserveStock",
			eventHandler.ReserveStock,
		),
		cqrs.NewEventHandler(
			"AuthorizePayment",
			eventHandler.AuthorizePayment,
		),
		cqrs.NewEventHandler(
			"OnOrderStockReserved",
			eventHandler.OnOrderStockReserved,
		),
		cqrs.NewEventHandler(
			"OnOrderStockReservationFailed",
			eventHandler.OnOrderStockReservationFailed,
		),
		cqrs.NewEventHandler(
			"OnOrderPaymentAuthorized",
			eventHandler.OnOrderPaymentAuthorized,
		),
		cqrs.NewEventHandler(
			"OnOrderPaymentDeclined",
			eventHandler.OnOrderPaymentDeclined,
		),
		cqrs.NewEventHandler(
			"OnOrderStatusChanged",
			eventHandler.OnOrderStatusChanged,
		),
		cqrs.NewEventHandler(
			"RepriceOrders",
			eventHandler.RepriceOrders,
		),
		cqrs.NewEventHandler(
			"ArchiveOrderCreated",
			eventHandler.ArchiveOrderCreated,
		),
		cqrs.NewEventHandler(
			"ArchiveProductPriceUpdated",
			eventHandler.ArchiveProductPriceUpdated,
		),
		cqrs.NewEventHandler(
			"ArchiveStockUpdated",
			eventHandler.ArchiveStockUpdated,
		),
		cqrs.NewEventHandler(
			"ArchiveOrderStatusChanged",
			eventHandler.ArchiveOrderStatusChanged,
		),
	)
	if err != nil {
		panic(err)
	}

	return router
}
