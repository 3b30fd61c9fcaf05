package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `County,Unemployment-Rate,Rate H.S. Diploma or Less
Alameda,5.1,49.4
Alpine,7.7,64.5
Amador,5.5,69.7
`

func TestDecodeCSV(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{County: "Alameda", Unemployment: 5.1, DiplomaOrLess: 49.4}, records[0])
	assert.Equal(t, Record{County: "Alpine", Unemployment: 7.7, DiplomaOrLess: 64.5}, records[1])
	assert.Equal(t, Record{County: "Amador", Unemployment: 5.5, DiplomaOrLess: 69.7}, records[2])
}

func TestDecodeCSV_ExtraColumnsIgnored(t *testing.T) {
	doc := `County,FIPS,Unemployment-Rate,Rate H.S. Diploma or Less
Alameda,06001,5.1,49.4
`
	records, err := DecodeCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alameda", records[0].County)
}

func TestDecodeCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty file",
			doc:     "",
			wantErr: "header row required",
		},
		{
			name:    "missing column",
			doc:     "County,Unemployment-Rate\nAlameda,5.1\n",
			wantErr: "missing required column",
		},
		{
			name:    "non-numeric rate",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\nAlameda,n/a,49.4\n",
			wantErr: "non-numeric",
		},
		{
			name:    "missing rate value",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\nAlameda,5.1,\n",
			wantErr: "has no",
		},
		{
			name:    "NaN rate",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\nAlameda,NaN,49.4\n",
			wantErr: "non-finite",
		},
		{
			name:    "empty county name",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\n,5.1,49.4\n",
			wantErr: "empty county",
		},
		{
			name:    "duplicate county",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\nAlameda,5.1,49.4\nAlameda,5.2,50.0\n",
			wantErr: "duplicate county",
		},
		{
			name:    "header only",
			doc:     "County,Unemployment-Rate,Rate H.S. Diploma or Less\n",
			wantErr: "no records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCSV(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	records, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}
