package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeocoder(GeocoderConfig{BaseURL: server.URL})
}

func TestReversePrefersCityAndCountry(t *testing.T) {
	var receivedUserAgent string
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected json format parameter, got %q", r.URL.Query().Get("format"))
		}
		if r.URL.Query().Get("accept-language") != "nl" {
			t.Errorf("expected dutch language hint, got %q", r.URL.Query().Get("accept-language"))
		}
		w.Write([]byte(`{"display_name":"Domplein 1, Utrecht, Nederland","address":{"city":"Utrecht","country":"Nederland"}}`))
	})

	location, err := geocoder.Reverse(context.Background(), 52.09, 5.12)
	if err != nil {
		t.Fatalf("unexpected reverse error: %v", err)
	}
	if location.Name != "Utrecht, Nederland" {
		t.Fatalf("unexpected name: %q", location.Name)
	}
	if location.City != "Utrecht" || location.Country != "Nederland" {
		t.Fatalf("unexpected breakdown: %#v", location)
	}
	if location.Lat != 52.09 || location.Lng != 5.12 {
		t.Fatalf("expected input coordinates to be echoed, got %#v", location)
	}
	if receivedUserAgent != "Emberwords App" {
		t.Fatalf("expected provider mandated user agent, got %q", receivedUserAgent)
	}
}

func TestReverseFallsBackToVillageAndDisplayName(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Hoeve De Zon, Westkapelle, Zeeland, Nederland","address":{"village":"Westkapelle","country":"Nederland"}}`))
	})

	location, err := geocoder.Reverse(context.Background(), 51.5, 3.4)
	if err != nil {
		t.Fatalf("unexpected reverse error: %v", err)
	}
	if location.Name != "Westkapelle, Nederland" {
		t.Fatalf("unexpected name: %q", location.Name)
	}

	geocoder = newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Ergens, Ver Weg, Achter De Horizon","address":{}}`))
	})
	location, err = geocoder.Reverse(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected reverse error: %v", err)
	}
	if location.Name != "Ergens, Ver Weg" {
		t.Fatalf("expected first two display name segments, got %q", location.Name)
	}
}

func TestReverseUsesPlaceholderWhenAddressEmpty(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{}}`))
	})

	location, err := geocoder.Reverse(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected reverse error: %v", err)
	}
	if location.Name != "Onbekende locatie" {
		t.Fatalf("expected placeholder name, got %q", location.Name)
	}
}

func TestReverseFailsOnBadStatusAndBadBody(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if _, err := geocoder.Reverse(context.Background(), 1, 1); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected lookup failure, got %v", err)
	}

	geocoder = newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	if _, err := geocoder.Reverse(context.Background(), 1, 1); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}
