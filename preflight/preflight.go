// Package preflight checks that the backend serves every admin endpoint before the console
// starts.
package preflight

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

// RequiredEndpoints are probed with GET by Verify.
var RequiredEndpoints = append(append([]string(nil), models.ResourcePaths...),
	models.PathRezultate,
	models.PathRaportInscrieri,
	models.PathRaportFacultati,
	models.PathMe,
)

// MissingEndpointsError lists the endpoints that answered 404.
type MissingEndpointsError struct {
	Paths []string
}

func (e *MissingEndpointsError) Error() string {
	return "required endpoints missing: " + strings.Join(e.Paths, ", ")
}

// Check probes each path and returns, sorted, the ones the backend does not serve. Any
// response other than 404 counts as served, including 401 for an anonymous client.
func Check(ctx context.Context, client *apiclient.Client, paths []string) ([]string, error) {
	var (
		mu      sync.Mutex
		missing []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		g.Go(func() error {
			_, err := client.Do(gctx, apiclient.Request{Method: http.MethodGet, Path: path}, nil)
			switch {
			case err == nil:
				return nil
			case apiclient.IsTransport(err):
				return errors.Wrapf(err, "probe %s", path)
			case apiclient.StatusOf(err) == http.StatusNotFound:
				mu.Lock()
				missing = append(missing, path)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(missing)
	return missing, nil
}

// Verify runs Check over RequiredEndpoints.
func Verify(ctx context.Context, client *apiclient.Client) error {
	missing, err := Check(ctx, client, RequiredEndpoints)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &MissingEndpointsError{Paths: missing}
	}
	return nil
}
