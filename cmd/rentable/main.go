package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentable/internal/app/commands"
	availabilityapp "rentable/internal/app/handlers/availability"
	bookingapp "rentable/internal/app/handlers/booking"
	listingapp "rentable/internal/app/handlers/listings"
	"rentable/internal/app/middleware"
	appoutbox "rentable/internal/app/outbox"
	"rentable/internal/app/policies"
	"rentable/internal/app/queries"
	domainavailability "rentable/internal/domain/availability"
	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
	"rentable/internal/infra/broker/kafka"
	"rentable/internal/infra/config"
	mongodb "rentable/internal/infra/db/mongo"
	ginserver "rentable/internal/infra/http/gin"
	"rentable/internal/infra/obs"
	infraoutbox "rentable/internal/infra/outbox"
	"rentable/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := os.Getenv("FIXTURES_PATH")
	if err := app.loadFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("fixtures load failed", "error", err, "path", fixturesPath)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &infraoutbox.Worker{
			Store:       app.outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Source:      "app://rentable",
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	outboxStore infraoutbox.Store
	ready       func() error

	listings       listingWriter
	listingTypes   *memory.ListingTypeRepository
	availabilities domainavailability.Repository
	pricingConfigs *memory.PricingConfigStore
	freeFees       *memory.FreeFeesStore
}

type listingWriter interface {
	domainlisting.Repository
	Save(ctx context.Context, lst *domainlisting.Listing) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{ready: func() error { return nil }}

	// Catalog configuration stays in memory in both modes; it is seeded
	// from fixtures at startup.
	app.listingTypes = memory.NewListingTypeRepository()
	app.pricingConfigs = memory.NewPricingConfigStore()
	app.freeFees = memory.NewFreeFeesStore()

	var (
		bookings  domainbooking.Repository
		snapshots policies.SnapshotPort
		idStore   middleware.IdempotencyStore
		box       appoutbox.Outbox
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		app.listings = mongodb.NewListingRepository(client.DB)
		app.availabilities = mongodb.NewAvailabilityRepository(client.DB)
		bookings = mongodb.NewBookingRepository(client.DB)
		snapshots = mongodb.NewSnapshotStore(client.DB)
		idStore = mongodb.NewIdempotencyStore(client.DB)
		store := infraoutbox.NewMongoStore(client.DB)
		box = store
		app.outboxStore = store
	default:
		app.listings = memory.NewListingRepository()
		app.availabilities = memory.NewAvailabilityRepository()
		bookings = memory.NewBookingRepository()
		snapshots = memory.NewSnapshotStore()
		idStore = memory.NewIdempotencyStore()
		memBox := memory.NewOutbox()
		box = memBox
		app.outboxStore = memBox
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	requestHandler := &bookingapp.RequestBookingHandler{
		Listings:       app.listings,
		ListingTypes:   app.listingTypes,
		Bookings:       bookings,
		Availabilities: app.availabilities,
		PricingConfigs: app.pricingConfigs,
		FreeFees:       app.freeFees,
		Snapshots:      snapshots,
		Outbox:         box,
		Encoder:        encoder,
	}
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), requestHandler)
	acceptHandler := &bookingapp.AcceptBookingHandler{Bookings: bookings, Outbox: box, Encoder: encoder}
	commands.RegisterHandler(commandBus, bookingapp.AcceptBookingCommand{}.Key(), acceptHandler)
	cancelHandler := &bookingapp.CancelBookingHandler{Bookings: bookings, Outbox: box, Encoder: encoder}
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), cancelHandler)
	blockHandler := &availabilityapp.BlockPeriodHandler{
		Listings:       app.listings,
		Availabilities: app.availabilities,
	}
	commands.RegisterHandler(commandBus, availabilityapp.BlockPeriodCommand{}.Key(), blockHandler)

	queryBus := queries.NewInMemoryBus()
	calendarHandler := &availabilityapp.GetCalendarHandler{
		Listings:       app.listings,
		Bookings:       bookings,
		Availabilities: app.availabilities,
	}
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), calendarHandler)
	quoteHandler := &listingapp.GetQuoteHandler{
		Listings:       app.listings,
		ListingTypes:   app.listingTypes,
		PricingConfigs: app.pricingConfigs,
	}
	queries.RegisterHandler(queryBus, listingapp.GetQuoteQuery{}.Key(), quoteHandler)

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Commands: commandBusWithMiddleware},
		Availability: ginserver.AvailabilityHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Listing:      ginserver.ListingHandler{Queries: queryBusWithMiddleware},
	}
	return app, nil
}

type fixtureFile struct {
	PricingConfigs []pricingFixture     `json:"pricing_configs"`
	ListingTypes   []listingTypeFixture `json:"listing_types"`
	Listings       []listingFixture     `json:"listings"`
}

type pricingFixture struct {
	ID          string  `json:"id"`
	Daily       float64 `json:"daily"`
	Breakpoints []struct {
		Day   int     `json:"day"`
		Value float64 `json:"value"`
	} `json:"breakpoints"`
}

type listingTypeFixture struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TimeMode           string  `json:"time_mode"`
	Availability       string  `json:"availability"`
	TimeAvailability   string  `json:"time_availability"`
	TimeUnit           string  `json:"time_unit"`
	MinDuration        int     `json:"min_duration"`
	MaxDuration        int     `json:"max_duration"`
	StartDateMinDelta  int     `json:"start_date_min_delta"`
	StartDateMaxDelta  int     `json:"start_date_max_delta"`
	OwnerFeesPercent   float64 `json:"owner_fees_percent"`
	TakerFeesPercent   float64 `json:"taker_fees_percent"`
	MaxDiscountPercent float64 `json:"max_discount_percent"`
}

type listingFixture struct {
	ID            string  `json:"id"`
	Owner         string  `json:"owner"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	SellingPrice  float64 `json:"selling_price"`
	DayOnePrice   float64 `json:"day_one_price"`
	Deposit       float64 `json:"deposit"`
	Currency      string  `json:"currency"`
	PricingID     string  `json:"pricing_id"`
	TypeIDs       []string `json:"type_ids"`
	Validated     bool     `json:"validated"`
	CustomPricing []struct {
		Day   int     `json:"day"`
		Price float64 `json:"price"`
	} `json:"custom_pricing"`
}

// loadFixtures seeds catalog data. An empty path seeds a minimal default
// catalog so the standalone mode answers requests out of the box.
func (a application) loadFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		return a.seedDefaults(ctx, logger)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fx fixtureFile
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	for _, p := range fx.PricingConfigs {
		cfg := domainpricing.RegressiveConfig{Daily: p.Daily}
		for _, bp := range p.Breakpoints {
			cfg.Breakpoints = append(cfg.Breakpoints, domainpricing.ValueBreakpoint{Day: bp.Day, Value: bp.Value})
		}
		if err := cfg.Validate(); err != nil {
			logger.Error("pricing fixture invalid", "pricing_id", p.ID, "error", err)
			continue
		}
		a.pricingConfigs.Save(p.ID, cfg)
	}
	for _, t := range fx.ListingTypes {
		lt := &domainlisting.ListingType{
			ID:           domainlisting.TypeID(t.ID),
			Name:         t.Name,
			TimeMode:     domainlisting.TimeMode(t.TimeMode),
			Availability: domainlisting.AvailabilityMode(t.Availability),
			Config: domainlisting.TypeConfig{
				BookingTime: domainlisting.BookingTimeConfig{
					TimeUnit:          domainlisting.TimeUnit(t.TimeUnit),
					MinDuration:       t.MinDuration,
					MaxDuration:       t.MaxDuration,
					StartDateMinDelta: t.StartDateMinDelta,
					StartDateMaxDelta: t.StartDateMaxDelta,
				},
				Pricing: domainlisting.PricingConfig{
					OwnerFeesPercent:   t.OwnerFeesPercent,
					TakerFeesPercent:   t.TakerFeesPercent,
					MaxDiscountPercent: t.MaxDiscountPercent,
				},
				TimeAvailability: domainlisting.TimeAvailabilityMode(t.TimeAvailability),
			},
			Active: true,
		}
		if err := a.listingTypes.Save(ctx, lt); err != nil {
			logger.Error("listing type fixture failed", "type_id", t.ID, "error", err)
		}
	}
	for _, l := range fx.Listings {
		lst := &domainlisting.Listing{
			ID:           domainlisting.ListingID(l.ID),
			Owner:        domainlisting.OwnerID(l.Owner),
			Name:         l.Name,
			Quantity:     l.Quantity,
			SellingPrice: l.SellingPrice,
			DayOnePrice:  l.DayOnePrice,
			Deposit:      l.Deposit,
			Currency:     l.Currency,
			PricingID:    l.PricingID,
			Validated:    l.Validated,
		}
		for _, t := range l.TypeIDs {
			lst.TypeIDs = append(lst.TypeIDs, domainlisting.TypeID(t))
		}
		if len(l.CustomPricing) > 0 {
			cfg := &domainpricing.CustomConfig{}
			for _, bp := range l.CustomPricing {
				cfg.Breakpoints = append(cfg.Breakpoints, domainpricing.PriceBreakpoint{Day: bp.Day, Price: bp.Price})
			}
			if err := cfg.Validate(); err != nil {
				logger.Error("listing fixture custom pricing invalid", "listing_id", l.ID, "error", err)
				continue
			}
			lst.CustomPricing = cfg
		}
		if err := a.listings.Save(ctx, lst); err != nil {
			logger.Error("listing fixture failed", "listing_id", l.ID, "error", err)
			continue
		}
		logger.Info("listing fixture imported", "listing_id", l.ID)
	}
	return nil
}

func (a application) seedDefaults(ctx context.Context, logger *slog.Logger) error {
	a.pricingConfigs.Save("default", domainpricing.RegressiveConfig{
		Daily: -0.02,
		Breakpoints: []domainpricing.ValueBreakpoint{
			{Day: 1, Value: 1},
			{Day: 8, Value: 0.8},
			{Day: 31, Value: 0.5},
		},
	})
	renting := &domainlisting.ListingType{
		ID:           "renting",
		Name:         "Renting",
		TimeMode:     domainlisting.TimeFlexible,
		Availability: domainlisting.AvailabilityStock,
		Config: domainlisting.TypeConfig{
			BookingTime: domainlisting.BookingTimeConfig{
				TimeUnit:          domainlisting.UnitDay,
				MinDuration:       1,
				MaxDuration:       100,
				StartDateMinDelta: 1,
				StartDateMaxDelta: 0,
			},
			Pricing: domainlisting.PricingConfig{
				OwnerFeesPercent:   5,
				TakerFeesPercent:   15,
				MaxDiscountPercent: 80,
			},
			TimeAvailability: domainlisting.TimeAvailabilityAvailable,
		},
		Active: true,
	}
	if err := a.listingTypes.Save(ctx, renting); err != nil {
		return err
	}
	selling := &domainlisting.ListingType{
		ID:           "selling",
		Name:         "Selling",
		TimeMode:     domainlisting.TimeNone,
		Availability: domainlisting.AvailabilityNone,
		Config: domainlisting.TypeConfig{
			Pricing: domainlisting.PricingConfig{
				OwnerFeesPercent:   7,
				TakerFeesPercent:   0,
				MaxDiscountPercent: 80,
			},
			TimeAvailability: domainlisting.TimeAvailabilityNone,
		},
		Active: true,
	}
	if err := a.listingTypes.Save(ctx, selling); err != nil {
		return err
	}
	logger.Info("default catalog seeded")
	return nil
}
