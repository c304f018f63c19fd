package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type TrackSource interface {
	Fetch(ctx context.Context) ([]Individual, error)
}

// MovebankTrackSource reads the public Movebank JSON service for one study.
type MovebankTrackSource struct {
	baseURL     string
	studyID     int64
	sensorType  string
	maxEvents   int
	sortSamples bool
	httpClient  *http.Client
	validate    *validator.Validate
}

func NewMovebankTrackSource(cfg MovebankConfig, timeout time.Duration) *MovebankTrackSource {
	return &MovebankTrackSource{
		baseURL:     cfg.BaseURL,
		studyID:     cfg.StudyID,
		sensorType:  cfg.SensorType,
		maxEvents:   cfg.MaxEventsPerIndividual,
		sortSamples: cfg.SortSamples,
		httpClient:  &http.Client{Timeout: timeout},
		validate:    validator.New(),
	}
}

// Wire types use pointers so that a missing field is distinguishable from a zero value.
type movebankResponse struct {
	Individuals *[]movebankIndividual `json:"individuals" validate:"required,dive"`
}

type movebankIndividual struct {
	LocalIdentifier *string             `json:"individual_local_identifier" validate:"required"`
	Locations       *[]movebankLocation `json:"locations" validate:"required,dive"`
}

type movebankLocation struct {
	Lat       *float64 `json:"location_lat" validate:"required"`
	Lon       *float64 `json:"location_long" validate:"required"`
	Timestamp *int64   `json:"timestamp" validate:"required"`
}

func (s *MovebankTrackSource) requestURL() (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("movebank base url: %w", err)
	}
	q := u.Query()
	q.Set("study_id", strconv.FormatInt(s.studyID, 10))
	q.Set("sensor_type", s.sensorType)
	q.Set("max_events_per_individual", strconv.Itoa(s.maxEvents))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *MovebankTrackSource) Fetch(ctx context.Context) ([]Individual, error) {
	reqURL, err := s.requestURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("movebank request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("movebank http status: %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("movebank read body: %w", err)
	}
	return s.decode(b)
}

func (s *MovebankTrackSource) decode(b []byte) ([]Individual, error) {
	var root movebankResponse
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("movebank decode: %w", err)
	}
	if err := s.validate.Struct(root); err != nil {
		return nil, fmt.Errorf("movebank payload: %w", err)
	}
	individuals := make([]Individual, 0, len(*root.Individuals))
	for _, mi := range *root.Individuals {
		samples := make([]LocationSample, 0, len(*mi.Locations))
		for _, loc := range *mi.Locations {
			samples = append(samples, LocationSample{
				Lat:       *loc.Lat,
				Lon:       *loc.Lon,
				Timestamp: *loc.Timestamp,
			})
		}
		if s.sortSamples {
			sort.SliceStable(samples, func(i, j int) bool {
				return samples[i].Timestamp < samples[j].Timestamp
			})
		}
		individuals = append(individuals, Individual{ID: *mi.LocalIdentifier, Samples: samples})
	}
	return individuals, nil
}
