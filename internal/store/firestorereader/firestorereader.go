// Package firestorereader is an optional cloud-backed Reader resolving
// containers from a Firestore collection instead of the filesystem.
// Grounded on the donor's pkg/firestore.Client (Firebase Admin SDK app +
// *firestore.Client, an Enabled no-op switch for local development, a
// ClientConfig populated from environment variables).
package firestorereader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	gcpfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/store"
)

// containerDoc is the shape stored in each Firestore document: the
// container-form JSON plus the payload bytes, base64-encoded by the
// Firestore client library automatically for []byte fields.
type containerDoc struct {
	Container []byte `firestore:"container"`
	Payload   []byte `firestore:"payload"`
}

// Config mirrors the donor's firestore.ClientConfig: project id, optional
// credentials file, and an Enabled switch so this reader is a no-op unless
// explicitly turned on.
type Config struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
	Enabled         bool
}

func DefaultConfig() Config {
	return Config{
		ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Collection:      envOr("PROVTOOL_FIRESTORE_COLLECTION", "provtool_containers"),
		Enabled:         os.Getenv("PROVTOOL_FIRESTORE_ENABLED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Reader implements store.Reader against a Firestore collection.
type Reader struct {
	cfg    Config
	client *gcpfirestore.Client
}

// New connects to Firestore unless cfg.Enabled is false, in which case every
// Read returns store.ErrMissingContainer immediately (safe default for local
// development, matching the donor's Enabled no-op pattern).
func New(ctx context.Context, cfg Config) (*Reader, error) {
	if !cfg.Enabled {
		return &Reader{cfg: cfg}, nil
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestorereader: init app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestorereader: init client: %w", err)
	}
	return &Reader{cfg: cfg, client: client}, nil
}

func (r *Reader) Name() string { return "firestore" }

func (r *Reader) Read(_ store.Options, cid string) ([]byte, []byte, error) {
	if !r.cfg.Enabled || r.client == nil {
		return nil, nil, store.ErrMissingContainer
	}
	ctx := context.Background()
	snap, err := r.client.Collection(r.cfg.Collection).Doc(cid).Get(ctx)
	if err != nil || !snap.Exists() {
		return nil, nil, store.ErrMissingContainer
	}
	var doc containerDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, nil, store.ErrHashMismatch
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(doc.Container, &parsed); err != nil {
		return nil, nil, store.ErrHashMismatch
	}
	rawDoc, recoveredCID, err := container.ToRawForm(parsed)
	if err != nil || recoveredCID != cid {
		return nil, nil, store.ErrHashMismatch
	}
	rawBytes, err := canon.Marshal(rawDoc)
	if err != nil || container.ComputeCID(rawBytes) != cid {
		return nil, nil, store.ErrHashMismatch
	}
	return rawBytes, doc.Payload, nil
}

func (r *Reader) Put(cid string, containerBytes, payload []byte) error {
	if !r.cfg.Enabled || r.client == nil {
		return nil
	}
	ctx := context.Background()
	_, err := r.client.Collection(r.cfg.Collection).Doc(cid).Set(ctx, containerDoc{
		Container: containerBytes,
		Payload:   payload,
	})
	return err
}

func (r *Reader) Search(_ store.Options, _ string) ([]string, error) {
	// Firestore label search would require a secondary index on prov:label;
	// out of scope for this reader, which exists to exercise the donor's
	// cloud stack as one more pluggable backend, not to replace the
	// filesystem reader's search.
	return nil, nil
}
