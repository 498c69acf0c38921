package staticpub

import (
	"strings"

	"github.com/alnah/go-staticpub/internal/jsonutil"
)

// actorPublished is the fixed creation date advertised in the actor
// document. A static instance has no account database to derive one from.
const actorPublished = "2023-02-09T00:00:00Z"

// Document is an ordered JSON object ready for emission. Builders return
// one per endpoint; field order is part of the output contract.
type Document struct {
	fields []jsonutil.Field
}

// MarshalJSON emits the fields in declaration order.
func (d Document) MarshalJSON() ([]byte, error) {
	return jsonutil.MarshalObject(d.fields)
}

// ActorAssets describes the optional companions discovered next to the
// instance: a featured note and banner/icon media. Presence is decided
// by the generator's filesystem checks so the builders stay pure.
type ActorAssets struct {
	// HasFeatured links the actor to {domain}/featured.
	HasFeatured bool

	// BannerName and IconName are media base names, empty when the
	// configured file does not exist.
	BannerName string
	IconName   string
}

// BuildActor assembles the Person document. The banner becomes the image
// property and the icon the icon property; each appears exactly when its
// own file exists.
func BuildActor(cfg *Config, assets ActorAssets) Document {
	domain := cfg.Instance.Domain
	fields := []jsonutil.Field{
		{Key: "@context", Value: []string{ActivityStreamsContext, SecurityContext}},
		{Key: "id", Value: cfg.Instance.ActorID},
		{Key: "type", Value: "Person"},
		{Key: "following", Value: domain + "/following"},
		{Key: "followers", Value: domain + "/followers"},
		{Key: "inbox", Value: domain + "/inbox"},
		{Key: "outbox", Value: domain + "/outbox"},
		{Key: "preferredUsername", Value: cfg.Actor.PreferredUsername},
		{Key: "name", Value: cfg.Actor.Name},
		{Key: "summary", Value: cfg.Actor.Summary},
		{Key: "url", Value: domain},
		{Key: "manuallyApprovesFollowers", Value: true},
		{Key: "discoverable", Value: cfg.Actor.Discoverable},
		{Key: "published", Value: actorPublished},
	}

	if assets.HasFeatured {
		fields = append(fields, jsonutil.Field{Key: "featured", Value: domain + "/featured"})
	}
	if assets.BannerName != "" {
		fields = append(fields, jsonutil.Field{Key: "image", Value: imageObject(domain, assets.BannerName)})
	}
	if assets.IconName != "" {
		fields = append(fields, jsonutil.Field{Key: "icon", Value: imageObject(domain, assets.IconName)})
	}

	return Document{fields: fields}
}

// BuildWebfinger assembles the discovery document served under
// .well-known/webfinger, pointing acct:{user}@{host} at the actor.
func BuildWebfinger(cfg *Config) Document {
	return Document{fields: []jsonutil.Field{
		{Key: "subject", Value: "acct:" + cfg.Actor.PreferredUsername + "@" + cfg.Instance.Host},
		{Key: "links", Value: []Document{{fields: []jsonutil.Field{
			{Key: "rel", Value: "self"},
			{Key: "type", Value: "application/activity+json"},
			{Key: "href", Value: cfg.Instance.ActorID},
		}}}},
	}}
}

// BuildFollowers assembles the followers collection. A static instance
// cannot enumerate followers, so it only advertises the configured count
// with an empty first page.
func BuildFollowers(cfg *Config) Document {
	return collectionStub(cfg.Instance.Domain+"/followers", cfg.Actor.Followers)
}

// BuildFollowing assembles the following collection.
func BuildFollowing(cfg *Config) Document {
	return collectionStub(cfg.Instance.Domain+"/following", cfg.Actor.Following)
}

func collectionStub(id string, totalItems int) Document {
	return Document{fields: []jsonutil.Field{
		{Key: "@context", Value: ActivityStreamsContext},
		{Key: "id", Value: id},
		{Key: "type", Value: "OrderedCollection"},
		{Key: "totalItems", Value: totalItems},
		{Key: "first", Value: []string{}},
	}}
}

// BuildFeatured assembles the pinned-posts collection holding exactly
// the configured featured note in its standalone form.
func BuildFeatured(cfg *Config, note *Note) Document {
	return Document{fields: []jsonutil.Field{
		{Key: "@context", Value: ActivityStreamsContext},
		{Key: "id", Value: cfg.Instance.Domain + "/featured"},
		{Key: "type", Value: "OrderedCollection"},
		{Key: "totalItems", Value: 1},
		{Key: "orderedItems", Value: []StandaloneNote{note.Standalone()}},
	}}
}

func imageObject(domain, name string) Document {
	return Document{fields: []jsonutil.Field{
		{Key: "type", Value: "Image"},
		{Key: "mediaType", Value: mediaType(name)},
		{Key: "url", Value: domain + "/" + name},
	}}
}

// mediaType guesses an image MIME type from the file extension.
func mediaType(name string) string {
	if strings.HasSuffix(name, ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
