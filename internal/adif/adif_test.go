package adif_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwalters/qslpress/internal/adif"
)

const sampleLog = `Generated by a logging program
<ADIF_VER:5>3.1.4
<EOH>
<CALL:4>W1AW <QSO_DATE:8>20230704 <TIME_ON:6>193000 <MY_GRIDSQUARE:6>FN31pr <FREQ:6>14.074 <TX_PWR:3>100 <MODE:3>FT8 <RST_SENT:3>599 <RST_RCVD:3>579 <EOR>
<CALL:6>KD2ABC <QSO_DATE:8>20230705 <TIME_ON:6>120000 <MY_GRIDSQUARE:6>FN31pr <MODE:3>SSB <MY_SIG_INFO:7>US-0001 <EOR>
`

func TestRead(t *testing.T) {
	records, err := adif.Read(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Len(t, records, 2)

	call, ok := records[0].Get("call")
	require.True(t, ok)
	require.Equal(t, "W1AW", call)

	date, ok := records[0].Get("qso_date")
	require.True(t, ok)
	require.Equal(t, "20230704", date)

	power, ok := records[0].Get("tx_pwr")
	require.True(t, ok)
	require.Equal(t, "100", power)

	// The first record carries no park reference.
	_, ok = records[0].Get("my_sig_info")
	require.False(t, ok)

	sig, ok := records[1].Get("my_sig_info")
	require.True(t, ok)
	require.Equal(t, "US-0001", sig)
}

func TestRead_preservesInputOrder(t *testing.T) {
	records, err := adif.Read(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, _ := records[0].Get("call")
	second, _ := records[1].Get("call")
	require.Equal(t, "W1AW", first)
	require.Equal(t, "KD2ABC", second)
}

func TestRecordGet_caseInsensitive(t *testing.T) {
	rec := adif.Record{"CALL": "W1AW"}

	for _, field := range []string{"call", "CALL", "Call"} {
		v, ok := rec.Get(field)
		require.True(t, ok, field)
		require.Equal(t, "W1AW", v)
	}
}

func TestRecordGet_emptyIsAbsent(t *testing.T) {
	rec := adif.Record{"MODE": ""}

	_, ok := rec.Get("mode")
	require.False(t, ok)

	_, ok = rec.Get("freq")
	require.False(t, ok)
}

func TestReadFile_missingFile(t *testing.T) {
	_, err := adif.ReadFile("testdata/does-not-exist.adi")
	require.Error(t, err)
}
