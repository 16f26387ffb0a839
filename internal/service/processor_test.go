package service_test

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwalters/qslpress/internal/label"
	"github.com/jwalters/qslpress/internal/model"
	"github.com/jwalters/qslpress/internal/service"
	"github.com/jwalters/qslpress/internal/store"
)

// fakeRenderer hands back a tiny image for every layout.
type fakeRenderer struct {
	layouts []label.Layout
}

func (f *fakeRenderer) Render(l label.Layout) (image.Image, error) {
	f.layouts = append(f.layouts, l)
	return image.NewRGBA(image.Rect(0, 0, 4, 2)), nil
}

// fakePrinter counts print jobs.
type fakePrinter struct {
	calls int
}

func (f *fakePrinter) Print(ctx context.Context, img image.Image) error {
	f.calls++
	return nil
}

func identityRotate(img image.Image) image.Image { return img }

func newTestProcessor(reg service.Registry) (*service.Processor, *fakeRenderer, *fakePrinter) {
	renderer := &fakeRenderer{}
	prn := &fakePrinter{}
	enricher := service.NewEnricher(reg, &captureEncoder{}, testConfig())
	p := service.NewProcessor(enricher, renderer, prn, identityRotate, testConfig())
	return p, renderer, prn
}

func TestProcess_endToEndWithoutRegistryMatch(t *testing.T) {
	p, _, prn := newTestProcessor(&fakeRegistry{})

	enriched, stats, err := p.Process(context.Background(), []service.Record{fullRecord()}, service.ProcessOptions{})

	require.NoError(t, err)
	require.Len(t, enriched, 1)
	require.Equal(t, "2023-07-04", enriched[0].Date)
	require.Equal(t, "14:30:00Z", enriched[0].Time)
	require.Equal(t, "S59 R57", enriched[0].SignalReport)
	require.False(t, enriched[0].HasAddress)

	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.NoAddress)
	require.Equal(t, 1, stats.Printed)
	require.Equal(t, 1, prn.calls)
}

func TestProcess_endToEndWithRegistryMatch(t *testing.T) {
	p, renderer, _ := newTestProcessor(&fakeRegistry{rec: testLicensee()})

	enriched, stats, err := p.Process(context.Background(), []service.Record{fullRecord()}, service.ProcessOptions{})

	require.NoError(t, err)
	require.Len(t, enriched, 1)
	require.True(t, enriched[0].HasAddress)
	require.Equal(t, "06111-0001", enriched[0].Zip)
	require.Equal(t, 1, stats.WithAddress)

	// The composed layout carried the barcode through to the renderer.
	require.Len(t, renderer.layouts, 1)
	require.NotNil(t, renderer.layouts[0].Barcode)
}

func TestProcess_haltsBeforeComposingOnAmbiguousCallsign(t *testing.T) {
	p, renderer, prn := newTestProcessor(&fakeRegistry{err: store.ErrAmbiguousCallsign})

	_, _, err := p.Process(context.Background(), []service.Record{fullRecord()}, service.ProcessOptions{})

	require.ErrorIs(t, err, store.ErrAmbiguousCallsign)
	require.Empty(t, renderer.layouts, "no label may be composed for a corrupt lookup")
	require.Zero(t, prn.calls)
}

func TestProcess_haltsOnMissingGridSquare(t *testing.T) {
	p, _, prn := newTestProcessor(&fakeRegistry{})
	rec := fullRecord()
	delete(rec, "MY_GRIDSQUARE")

	_, _, err := p.Process(context.Background(), []service.Record{rec}, service.ProcessOptions{})

	var mgs *service.MissingGridSquareError
	require.ErrorAs(t, err, &mgs)
	require.Zero(t, prn.calls)
}

func TestProcess_exportOnlyWritesPNGAndSkipsPrinter(t *testing.T) {
	p, _, prn := newTestProcessor(&fakeRegistry{})
	dir := t.TempDir()

	_, stats, err := p.Process(context.Background(), []service.Record{fullRecord()}, service.ProcessOptions{
		ExportOnly: true,
		OutDir:     dir,
	})

	require.NoError(t, err)
	require.Equal(t, 1, stats.Exported)
	require.Zero(t, prn.calls)

	_, err = os.Stat(filepath.Join(dir, "W1AW-2023-07-04.png"))
	require.NoError(t, err)
}

func TestProcess_preservesInputOrder(t *testing.T) {
	p, _, _ := newTestProcessor(&fakeRegistry{})

	first := fullRecord()
	second := fullRecord()
	second["CALL"] = "K1ABC"

	enriched, _, err := p.Process(context.Background(), []service.Record{first, second}, service.ProcessOptions{})

	require.NoError(t, err)
	require.Equal(t, "W1AW", enriched[0].Callsign)
	require.Equal(t, "K1ABC", enriched[1].Callsign)
}

func TestDumpBatch_writesLosslessJSON(t *testing.T) {
	p, _, _ := newTestProcessor(&fakeRegistry{rec: testLicensee()})
	dir := t.TempDir()

	enriched, _, err := p.Process(context.Background(), []service.Record{fullRecord()}, service.ProcessOptions{
		ExportOnly: true,
		OutDir:     dir,
	})
	require.NoError(t, err)

	path, err := p.DumpBatch(enriched, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var round []model.EnrichedQSO
	require.NoError(t, json.Unmarshal(data, &round))
	require.Equal(t, enriched, round)
}
