//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hostelhub/hostel-backend/internal/application"
	"github.com/hostelhub/hostel-backend/internal/events"
	"github.com/hostelhub/hostel-backend/internal/platform/kafka"
	"github.com/hostelhub/hostel-backend/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// hostelStack holds the wired-up application services.
type hostelStack struct {
	Bookings        *application.BookingService
	Rooms           *application.RoomService
	Availability    *application.AvailabilityService
	Offers          *application.OfferService
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	// Start PostgreSQL container with log-based wait strategy.
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_hostel",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_hostel sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.GuestModel{},
		&repository.RoomModel{},
		&repository.OfferModel{},
		&repository.BookingModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupHostelStack wires the full service stack against real infrastructure.
func setupHostelStack(t *testing.T, db *gorm.DB, brokers []string) *hostelStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := kafka.NewProducer(brokers, logger)
	publisher := events.NewPublisher(producer, logger)

	txManager := repository.NewTxManager(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	guestRepo := repository.NewGormGuestRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)

	bookingSvc := application.NewBookingService(
		roomRepo, bookingRepo, guestRepo, offerRepo, txManager, publisher, logger,
	)
	roomSvc := application.NewRoomService(roomRepo, bookingRepo, txManager, logger)
	availabilitySvc := application.NewAvailabilityService(roomRepo, bookingRepo, logger)
	offerSvc := application.NewOfferService(offerRepo, logger)

	return &hostelStack{
		Bookings:        bookingSvc,
		Rooms:           roomSvc,
		Availability:    availabilitySvc,
		Offers:          offerSvc,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// createRoom provisions a room through the service layer.
func createRoom(t *testing.T, svc *application.RoomService, adminID uuid.UUID, roomNumber string, capacity int, priceCents int64) *application.RoomDTO {
	t.Helper()
	room, err := svc.CreateRoom(context.Background(), adminID, application.CreateRoomRequest{
		RoomNumber: roomNumber,
		Name:       "Room " + roomNumber,
		RoomType:   "dorm",
		Capacity:   capacity,
		Floor:      1,
		PriceCents: priceCents,
		Amenities:  []string{"wifi", "locker"},
	})
	require.NoError(t, err, "failed to create room")
	return room
}

// guestDetails returns a minimal valid guest payload.
func guestDetails(email string) application.GuestDetails {
	return application.GuestDetails{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       email,
		Phone:       "+60123456789",
		Nationality: "GB",
	}
}

// roomState reloads the persisted room row.
func roomState(t *testing.T, db *gorm.DB, roomID uuid.UUID) repository.RoomModel {
	t.Helper()
	var model repository.RoomModel
	require.NoError(t, db.Where("id = ?", roomID).First(&model).Error)
	return model
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
