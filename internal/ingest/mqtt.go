// Package ingest feeds externally reported operating counters into the asset
// store. Hour meters and odometers on the equipment publish readings over
// MQTT; the calculator only ever reads the stored counters.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const (
	counterTopic   = "assets/+/counters"
	connectTimeout = 10 * time.Second
	updateTimeout  = 5 * time.Second
)

// CounterUpdate is the payload published by asset meters.
type CounterUpdate struct {
	Hours      float64   `json:"hours"`
	Kilometers float64   `json:"kilometers"`
	Timestamp  time.Time `json:"timestamp"`
}

// CounterStore is the slice of the record store the subscriber writes to.
type CounterStore interface {
	UpdateAssetCounters(ctx context.Context, id string, hours, kilometers float64) error
}

// Subscriber consumes counter readings from the MQTT broker.
type Subscriber struct {
	client mqtt.Client
	store  CounterStore
}

// NewSubscriber connects to the broker and returns a subscriber ready to
// start.
func NewSubscriber(broker, clientID string, store CounterStore) (*Subscriber, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, err)
	}

	return &Subscriber{client: client, store: store}, nil
}

// Start subscribes to the counter topic. Message handling never stops the
// subscription: a bad payload or a store failure is logged and dropped.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(counterTopic, 1, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", counterTopic, err)
	}
	log.WithField("topic", counterTopic).Info("MQTT counter ingest started")
	return nil
}

// Stop unsubscribes and disconnects.
func (s *Subscriber) Stop() {
	s.client.Unsubscribe(counterTopic)
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	assetID, ok := AssetIDFromTopic(msg.Topic())
	if !ok {
		log.WithField("topic", msg.Topic()).Warn("counter message on unexpected topic, dropping")
		return
	}

	var update CounterUpdate
	if err := json.Unmarshal(msg.Payload(), &update); err != nil {
		log.WithField("asset_id", assetID).WithError(err).Warn("invalid counter payload, dropping")
		return
	}
	if update.Hours < 0 || update.Kilometers < 0 {
		log.WithField("asset_id", assetID).Warn("negative counter reading, dropping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()
	if err := s.store.UpdateAssetCounters(ctx, assetID, update.Hours, update.Kilometers); err != nil {
		log.WithField("asset_id", assetID).WithError(err).Warn("failed to store counter update")
		return
	}

	log.WithFields(log.Fields{
		"asset_id":   assetID,
		"hours":      update.Hours,
		"kilometers": update.Kilometers,
	}).Debug("counter update applied")
}

// AssetIDFromTopic extracts the asset id from an assets/{id}/counters topic.
func AssetIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "assets" || parts[2] != "counters" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
