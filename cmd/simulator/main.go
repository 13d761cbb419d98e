package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"
)

// EquipmentModel mirrors the API payload for equipment model creation.
type EquipmentModel struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	CounterType  string `json:"counter_type"`
}

// Asset mirrors the API payload for asset creation.
type Asset struct {
	Name    string `json:"name"`
	ModelID string `json:"model_id"`
	Status  string `json:"status"`
}

// ServiceInterval mirrors the API payload for interval creation.
type ServiceInterval struct {
	ID             string  `json:"id,omitempty"`
	ModelID        string  `json:"model_id"`
	Type           string  `json:"type"`
	IntervalValue  float64 `json:"interval_value"`
	Name           string  `json:"name"`
	IsRecurring    bool    `json:"is_recurring"`
	FirstCycleOnly bool    `json:"is_first_cycle_only"`
	Category       string  `json:"maintenance_category,omitempty"`
}

// CounterReading is posted to /assets/{id}/counters.
type CounterReading struct {
	Hours      float64 `json:"hours"`
	Kilometers float64 `json:"kilometers"`
}

// ServiceEvent mirrors the API payload for recording performed maintenance.
type ServiceEvent struct {
	AssetID    string  `json:"asset_id"`
	Type       string  `json:"type"`
	Hours      float64 `json:"hours"`
	IntervalID string  `json:"interval_id"`
	Technician string  `json:"technician,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type intervalSpec struct {
	Name           string
	Value          float64
	FirstCycleOnly bool
	Category       string
}

type modelProfile struct {
	Name         string
	Manufacturer string
	CounterType  string
	// usage per tick, in the model's counter unit
	MinUsage, MaxUsage float64
	Intervals          []intervalSpec
}

// Profiles loosely based on common industrial equipment service schedules.
var profiles = []modelProfile{
	{
		Name: "320D Excavator", Manufacturer: "Caterpillar", CounterType: "hours",
		MinUsage: 2, MaxUsage: 8,
		Intervals: []intervalSpec{
			{Name: "Break-in inspection", Value: 50, FirstCycleOnly: true, Category: "inspection"},
			{Name: "Engine oil change", Value: 250, Category: "lubrication"},
			{Name: "Hydraulic filter", Value: 500, Category: "filters"},
			{Name: "Full service", Value: 1000, Category: "major"},
		},
	},
	{
		Name: "QSK60 Generator", Manufacturer: "Cummins", CounterType: "hours",
		MinUsage: 5, MaxUsage: 12,
		Intervals: []intervalSpec{
			{Name: "Oil and filter change", Value: 250, Category: "lubrication"},
			{Name: "Coolant system check", Value: 500, Category: "cooling"},
			{Name: "Major overhaul prep", Value: 1500, Category: "major"},
		},
	},
	{
		Name: "HD785 Haul Truck", Manufacturer: "Komatsu", CounterType: "kilometers",
		MinUsage: 40, MaxUsage: 120,
		Intervals: []intervalSpec{
			{Name: "Oil change", Value: 5000, Category: "lubrication"},
			{Name: "Brake inspection", Value: 10000, Category: "brakes"},
			{Name: "Transmission service", Value: 40000, Category: "major"},
		},
	},
}

var technicians = []string{"M. Torres", "A. Petrov", "J. Okafor", "S. Lindqvist", "R. Tanaka"}

var authToken string

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postJSON(url string, payload interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := authorizedPost(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

func createModel(apiURL string, profile modelProfile) (string, error) {
	result, err := postJSON(apiURL+"/models", EquipmentModel{
		Name:         profile.Name,
		Manufacturer: profile.Manufacturer,
		CounterType:  profile.CounterType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create model: %w", err)
	}

	modelID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid model ID in response")
	}

	log.WithFields(log.Fields{
		"model_id":     modelID,
		"name":         profile.Name,
		"counter_type": profile.CounterType,
	}).Info("Created equipment model")

	return modelID, nil
}

// createIntervals registers the profile's service schedule and returns the
// interval IDs keyed by service name, needed when recording performed work.
func createIntervals(apiURL string, modelID string, profile modelProfile) (map[string]string, error) {
	ids := make(map[string]string, len(profile.Intervals))
	for _, spec := range profile.Intervals {
		result, err := postJSON(apiURL+"/intervals", ServiceInterval{
			ModelID:        modelID,
			Type:           profile.CounterType,
			IntervalValue:  spec.Value,
			Name:           spec.Name,
			IsRecurring:    !spec.FirstCycleOnly,
			FirstCycleOnly: spec.FirstCycleOnly,
			Category:       spec.Category,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create interval %q: %w", spec.Name, err)
		}
		intervalID, ok := result["id"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid interval ID in response for %q", spec.Name)
		}
		ids[spec.Name] = intervalID
	}
	return ids, nil
}

func createAsset(apiURL string, name string, modelID string) (string, error) {
	result, err := postJSON(apiURL+"/assets", Asset{
		Name:    name,
		ModelID: modelID,
		Status:  "active",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create asset: %w", err)
	}

	assetID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid asset ID in response")
	}

	log.WithFields(log.Fields{
		"asset_id": assetID,
		"name":     name,
	}).Info("Created asset")

	return assetID, nil
}

// --- Usage simulation ---

type AssetState struct {
	AssetID     string
	Profile     modelProfile
	IntervalIDs map[string]string // service name -> interval id
	Counter     float64
	UsageRate   float64 // units per tick
}

// crossedMultiple reports whether the counter passed a multiple of step
// between the previous and current reading.
func crossedMultiple(prev, curr, step float64) bool {
	if step <= 0 || curr <= prev {
		return false
	}
	return int(curr/step) > int(prev/step)
}

// lastMultiple returns the highest multiple of step not exceeding value.
func lastMultiple(value, step float64) float64 {
	if step <= 0 {
		return 0
	}
	return float64(int(value/step)) * step
}

func counterReading(s *AssetState) CounterReading {
	if s.Profile.CounterType == "kilometers" {
		return CounterReading{Kilometers: s.Counter}
	}
	return CounterReading{Hours: s.Counter}
}

func sendCounters(apiURL string, s *AssetState) {
	data, err := json.Marshal(counterReading(s))
	if err != nil {
		log.WithError(err).Error("Failed to marshal counter reading")
		return
	}
	resp, err := authorizedPost(apiURL+"/assets/"+s.AssetID+"/counters", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send counter reading")
		return
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{"asset_id": s.AssetID, "counter": s.Counter, "status": resp.Status}).Info("Sent counter reading")
}

func recordService(apiURL string, s *AssetState, spec intervalSpec) {
	// Service performed at the due point, not at the current reading.
	reading := lastMultiple(s.Counter, spec.Value)
	event := ServiceEvent{
		AssetID:    s.AssetID,
		Type:       "preventive",
		Hours:      reading,
		IntervalID: s.IntervalIDs[spec.Name],
		Technician: technicians[rand.Intn(len(technicians))],
		Notes:      spec.Name,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal service event")
		return
	}
	resp, err := authorizedPost(apiURL+"/events", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to record service event")
		return
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{
		"asset_id": s.AssetID,
		"service":  spec.Name,
		"reading":  reading,
		"status":   resp.Status,
	}).Info("Recorded preventive service")
}

// serviceCompliance is the chance a due service actually gets performed. The
// rest slip through and show up as overdue on the worklist.
const serviceCompliance = 0.7

func simulateAsset(apiURL string, s *AssetState, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		prev := s.Counter
		// small usage noise
		s.UsageRate += (rand.Float64()*2 - 1) * (s.Profile.MaxUsage - s.Profile.MinUsage) * 0.1
		if s.UsageRate < s.Profile.MinUsage {
			s.UsageRate = s.Profile.MinUsage
		}
		if s.UsageRate > s.Profile.MaxUsage {
			s.UsageRate = s.Profile.MaxUsage
		}
		s.Counter += s.UsageRate

		sendCounters(apiURL, s)

		for _, spec := range s.Profile.Intervals {
			if crossedMultiple(prev, s.Counter, spec.Value) && rand.Float64() < serviceCompliance {
				recordService(apiURL, s, spec)
			}
		}
	}
}

func main() {
	// Optional JWT for protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	assetCount := 10
	if val := os.Getenv("SIM_ASSETS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			assetCount = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"asset_count": assetCount,
		"api_url":     apiURL,
		"interval":    interval,
	}).Info("Starting maintenance simulation")

	// One equipment model per profile, each with its service schedule
	type createdModel struct {
		id          string
		profile     modelProfile
		intervalIDs map[string]string
	}
	created := make([]createdModel, 0, len(profiles))
	for _, profile := range profiles {
		modelID, err := createModel(apiURL, profile)
		if err != nil {
			log.WithError(err).Error("Failed to create equipment model")
			continue
		}
		intervalIDs, err := createIntervals(apiURL, modelID, profile)
		if err != nil {
			log.WithError(err).Error("Failed to create service intervals")
			continue
		}
		created = append(created, createdModel{id: modelID, profile: profile, intervalIDs: intervalIDs})
	}
	if len(created) == 0 {
		log.Error("No equipment models created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	states := make([]*AssetState, 0, assetCount)
	for i := 0; i < assetCount; i++ {
		m := created[rand.Intn(len(created))]
		assetID, err := createAsset(apiURL, fmt.Sprintf("%s-%03d", m.profile.Name, i+1), m.id)
		if err != nil {
			log.WithError(err).Error("Failed to create asset")
			continue
		}
		state := &AssetState{
			AssetID:     assetID,
			Profile:     m.profile,
			IntervalIDs: m.intervalIDs,
			Counter:     rand.Float64() * m.profile.Intervals[len(m.profile.Intervals)-1].Value,
			UsageRate:   m.profile.MinUsage + rand.Float64()*(m.profile.MaxUsage-m.profile.MinUsage),
		}
		states = append(states, state)
	}

	log.WithField("created_assets", len(states)).Info("Asset creation completed")
	if len(states) == 0 {
		log.Error("No assets created. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	for _, s := range states {
		go simulateAsset(apiURL, s, interval)
	}

	log.Info("Counter simulation started")
	select {} // Block forever
}
