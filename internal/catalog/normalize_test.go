package catalog

import (
	"reflect"
	"testing"
)

func TestFromRaw_Defaults(t *testing.T) {
	p := FromRaw(map[string]interface{}{"name": "Prinsep Ghat"})
	if p.City != "Kolkata" {
		t.Errorf("City = %q, want Kolkata", p.City)
	}
	if p.Type != "place" {
		t.Errorf("Type = %q, want place", p.Type)
	}
	if p.Tags == nil || p.Images == nil || p.NearbyStalls == nil {
		t.Error("expected non-nil empty slices")
	}
}

func TestFromRaw_TagsLowercasedWithFallback(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name": "x",
		"tags": []interface{}{"Heritage", "RIVERSIDE"},
	})
	if want := []string{"heritage", "riverside"}; !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("Tags = %v, want %v", p.Tags, want)
	}

	p = FromRaw(map[string]interface{}{
		"name":           "y",
		"sentiment_tags": []interface{}{"Quiet"},
	})
	if want := []string{"quiet"}; !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("sentiment_tags fallback = %v, want %v", p.Tags, want)
	}
}

func TestFromRaw_ImagesAndPrimaryImage(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name":       "x",
		"image_urls": []interface{}{"a.jpg", "b.jpg"},
	})
	if len(p.Images) != 2 {
		t.Fatalf("Images = %v, want 2 entries", p.Images)
	}
	if p.Image != "a.jpg" {
		t.Errorf("Image = %q, want first of list", p.Image)
	}
}

func TestFromRaw_StoryAlias(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name":  "x",
		"story": "an old tale",
	})
	if p.Description != "an old tale" || p.History != "an old tale" {
		t.Errorf("story alias not applied: desc=%q hist=%q", p.Description, p.History)
	}

	// Explicit fields win over the alias.
	p = FromRaw(map[string]interface{}{
		"name":        "x",
		"story":       "an old tale",
		"description": "explicit",
	})
	if p.Description != "explicit" {
		t.Errorf("Description = %q, want explicit", p.Description)
	}
	if p.History != "an old tale" {
		t.Errorf("History = %q, want story fallback", p.History)
	}
}

func TestFromRaw_MalformedFieldsDegrade(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name": "x",
		"lat":  "not-a-number",
		"tags": "not-a-list",
	})
	if p.Lat != 0 {
		t.Errorf("Lat = %v, want 0 for malformed input", p.Lat)
	}
	if len(p.Tags) != 0 {
		t.Errorf("Tags = %v, want empty for malformed input", p.Tags)
	}
}

func TestFromRaw_UnknownKeysLandInExtra(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name":      "x",
		"wikipedia": "https://example.org",
	})
	if p.Extra["wikipedia"] != "https://example.org" {
		t.Errorf("Extra = %v, want wikipedia key preserved", p.Extra)
	}
}

func TestFromRaw_NearbyStalls(t *testing.T) {
	p := FromRaw(map[string]interface{}{
		"name": "x",
		"nearby_tea_stalls": []interface{}{
			"Balwant Singh's Eating House",
			map[string]interface{}{"name": "Ghat-side stall", "distance_m": 120, "specialty": "lebu cha"},
		},
	})
	if len(p.NearbyStalls) != 2 {
		t.Fatalf("NearbyStalls = %v, want 2", p.NearbyStalls)
	}
	if p.NearbyStalls[1].DistanceM != 120 || p.NearbyStalls[1].Specialty != "lebu cha" {
		t.Errorf("structured stall = %+v", p.NearbyStalls[1])
	}
}

func TestFromRaw_Idempotent(t *testing.T) {
	raw := map[string]interface{}{
		"id":   "p1",
		"name": "College Street",
		"tags": []interface{}{"Books", "heritage"},
		"city": "Kolkata",
	}
	once := FromRaw(raw)
	again := FromRaw(map[string]interface{}{
		"id":   once.ID,
		"name": once.Name,
		"tags": []interface{}{once.Tags[0], once.Tags[1]},
		"city": once.City,
	})
	if !reflect.DeepEqual(once.Tags, again.Tags) || once.City != again.City {
		t.Errorf("normalization not idempotent: %+v vs %+v", once, again)
	}
}
