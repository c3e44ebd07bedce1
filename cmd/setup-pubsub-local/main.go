// Command setup-pubsub-local creates the track event topic and the activity
// push subscription on the Pub/Sub emulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"cutroom/internal/config"
	"cutroom/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// host.docker.internal lets the emulator container reach the API on the host.
const defaultPushEndpoint = "http://host.docker.internal:8080/v1/activity/push"

func main() {
	pushEndpoint := flag.String("push-endpoint", defaultPushEndpoint, "URL the activity subscription pushes to")
	reset := flag.Bool("reset", false, "delete every topic and subscription on the emulator first")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on system environment variables.")
	}
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	if !cfg.IsLocalPubSub() {
		logger.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set; this tool only targets the emulator")
	}
	if cfg.GCPProjectID == "" {
		logger.Fatal().Msg("GCP_PROJECT_ID is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Pub/Sub client")
	}
	defer client.Close()

	if *reset {
		if err := resetEmulator(ctx, client, logger); err != nil {
			logger.Fatal().Err(err).Msg("Failed to reset emulator")
		}
	}
	if err := ensureTrackResources(ctx, client, cfg.PubSubTrackTopic, *pushEndpoint, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up track event resources")
	}
	logger.Info().Msg("Pub/Sub setup for local environment complete")
}

func resetEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) error {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("list subscriptions: %w", err)
		}
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
	logger.Info().Msg("Emulator reset")
	return nil
}

// ensureTrackResources creates <topic>, <topic>-dlq and the activity push
// subscription that dead-letters after five attempts.
func ensureTrackResources(ctx context.Context, client *pubsub.Client, topicID, endpoint string, logger zerolog.Logger) error {
	retention := 7 * 24 * time.Hour

	dlq, err := ensureTopic(ctx, client, topicID+"-dlq", retention, logger)
	if err != nil {
		return err
	}
	topic, err := ensureTopic(ctx, client, topicID, retention, logger)
	if err != nil {
		return err
	}

	want := pubsub.SubscriptionConfig{
		Topic:                 topic,
		PushConfig:            pubsub.PushConfig{Endpoint: endpoint},
		AckDeadline:           60 * time.Second,
		EnableMessageOrdering: true,
		ExpirationPolicy:      31 * 24 * time.Hour,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 10 * time.Second,
			MaximumBackoff: 600 * time.Second,
		},
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlq.String(),
			MaxDeliveryAttempts: 5,
		},
	}
	return ensureSubscription(ctx, client, topicID+"-activity-sub", want, logger)
}

func ensureTopic(ctx context.Context, client *pubsub.Client, topicID string, retention time.Duration, logger zerolog.Logger) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topicID, err)
	}
	if exists {
		logger.Info().Str("topic", topicID).Msg("Topic already exists")
		return topic, nil
	}
	logger.Info().Str("topic", topicID).Dur("retention", retention).Msg("Creating topic")
	topic, err = client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: retention})
	if err != nil {
		return nil, fmt.Errorf("create topic %s: %w", topicID, err)
	}
	return topic, nil
}

func ensureSubscription(ctx context.Context, client *pubsub.Client, subID string, want pubsub.SubscriptionConfig, logger zerolog.Logger) error {
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", subID, err)
	}
	if !exists {
		logger.Info().Str("subscription", subID).Str("endpoint", want.PushConfig.Endpoint).Msg("Creating subscription")
		if _, err := client.CreateSubscription(ctx, subID, want); err != nil {
			return fmt.Errorf("create subscription %s: %w", subID, err)
		}
		return nil
	}

	have, err := sub.Config(ctx)
	if err != nil {
		return fmt.Errorf("read subscription %s: %w", subID, err)
	}
	if have.PushConfig.Endpoint == want.PushConfig.Endpoint && have.AckDeadline == want.AckDeadline {
		logger.Info().Str("subscription", subID).Msg("Subscription is up to date")
		return nil
	}

	logger.Info().Str("subscription", subID).Msg("Updating subscription")
	_, err = sub.Update(ctx, pubsub.SubscriptionConfigToUpdate{
		PushConfig:  &want.PushConfig,
		AckDeadline: want.AckDeadline,
		RetryPolicy: want.RetryPolicy,
	})
	if err != nil {
		return fmt.Errorf("update subscription %s: %w", subID, err)
	}
	return nil
}
