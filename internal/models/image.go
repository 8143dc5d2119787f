package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var versionSegment = regexp.MustCompile(`^v[0-9]+$`)

// Image references a file stored on the media host. Clients may send just the
// delivery url, the public id is then derived from it.
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// imageFields decodes without the custom unmarshalers.
type imageFields Image

func ImageFromURL(url string) Image {
	return Image{PublicID: PublicIDFromURL(url), URL: url}
}

func (img *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*img = ImageFromURL(url)
		return nil
	}
	return json.Unmarshal(data, (*imageFields)(img))
}

func (img *Image) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		url, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("image: malformed string")
		}
		*img = ImageFromURL(url)
		return nil
	case bson.TypeEmbeddedDocument:
		return bson.Unmarshal(data, (*imageFields)(img))
	case bson.TypeNull, bson.TypeUndefined:
		*img = Image{}
		return nil
	default:
		return fmt.Errorf("image: cannot decode %s", t)
	}
}

func ImageURLs(images []Image) []string {
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}
	return urls
}

// PublicIDFromURL extracts the public id from a delivery url such as
// https://res.cloudinary.com/demo/image/upload/v1712/products/abc.jpg
// which yields "products/abc". It returns "" for urls it cannot parse.
func PublicIDFromURL(url string) string {
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "?")

	segments := strings.Split(rest, "/")
	for i, seg := range segments {
		if versionSegment.MatchString(seg) {
			segments = segments[i+1:]
			break
		}
	}
	if len(segments) == 0 {
		return ""
	}

	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}
