package innertube

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewPlayerRequestShapesAndroidContext(t *testing.T) {
	req := NewPlayerRequest(AndroidIdentity, "dQw4w9WgXcQ")

	body, err := MarshalRequest(req)
	if err != nil {
		t.Fatalf("MarshalRequest() error = %v", err)
	}
	payload := string(body)

	for _, want := range []string{
		`"clientName":"ANDROID"`,
		`"androidSdkVersion":30`,
		`"videoId":"dQw4w9WgXcQ"`,
		`"hl":"en"`,
		`"gl":"US"`,
	} {
		if !strings.Contains(payload, want) {
			t.Fatalf("request payload missing %s: %s", want, payload)
		}
	}
}

func TestNewPlayerRequestOmitsAndroidFieldsForWeb(t *testing.T) {
	body, err := MarshalRequest(NewPlayerRequest(WebIdentity, "dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("MarshalRequest() error = %v", err)
	}
	if strings.Contains(string(body), "androidSdkVersion") {
		t.Fatalf("web payload should omit androidSdkVersion: %s", body)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
}

func TestPlayerEndpointCarriesAPIKey(t *testing.T) {
	endpoint := PlayerEndpoint(AndroidIdentity)
	if !strings.HasPrefix(endpoint, "https://www.youtube.com/youtubei/v1/player?key=") {
		t.Fatalf("PlayerEndpoint() = %s", endpoint)
	}
}

func TestIdentitiesOrderWebLast(t *testing.T) {
	ids := Identities()
	if len(ids) != 3 {
		t.Fatalf("Identities() len = %d, want 3", len(ids))
	}
	if ids[0].Name != "android" || ids[1].Name != "ios" || ids[2].Name != "web" {
		t.Fatalf("unexpected fallback order: %s, %s, %s", ids[0].Name, ids[1].Name, ids[2].Name)
	}
	if !ids[2].RequiresDecipher {
		t.Fatal("web identity should be marked RequiresDecipher")
	}
	for _, id := range ids[:2] {
		if id.RequiresDecipher {
			t.Fatalf("%s identity should not require deciphering", id.Name)
		}
	}
}
