package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/mapscrape/internal/types"
)

const sampleTable = `Here are the results:

| Name | Address | Rating | Reviews | Website | Phone |
|------|---------|--------|---------|---------|-------|
| Cafe Alpha | 1 Main St, Baku | 4.5 | 120 | https://alpha.example | +994 12 000 0001 |
| Beta Beans | 2 Side St, Baku | 4.1 | 88 | N/A | +994 12 000 0002 |
| Gamma Roast | 3 Hill Rd, Baku | 3.9 | 15 | https://gamma.example | N/A |
`

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestParse_Rows(t *testing.T) {
	p := &Parser{NewID: sequentialIDs()}
	places := p.Parse(sampleTable)

	require.Len(t, places, 3)
	assert.Equal(t, types.Place{
		ID:      "id-1",
		Name:    "Cafe Alpha",
		Address: "1 Main St, Baku",
		Rating:  "4.5",
		Reviews: "120",
		Website: "https://alpha.example",
		Phone:   "+994 12 000 0001",
	}, places[0])
	assert.Equal(t, "Beta Beans", places[1].Name)
	assert.Equal(t, "N/A", places[1].Website)
	assert.Equal(t, "Gamma Roast", places[2].Name)
	assert.Empty(t, places[2].GoogleMapsURL)
}

func TestParse_UniqueIDs(t *testing.T) {
	places := ParseTable(sampleTable)
	require.Len(t, places, 3)

	seen := make(map[string]bool)
	for _, p := range places {
		require.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestParse_Edges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.Place
	}{
		{
			name:  "no separator",
			input: "| Name | Address |\n| A | B |\n",
			want:  []types.Place{},
		},
		{
			name:  "empty input",
			input: "",
			want:  []types.Place{},
		},
		{
			name:  "two columns pads with N/A",
			input: "|---|---|\n| Only Name | Only Address |\n",
			want: []types.Place{{
				ID: "id-1", Name: "Only Name", Address: "Only Address",
				Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A",
			}},
		},
		{
			name:  "single column row skipped",
			input: "|---|\n| lonely |\n| A | B |\n",
			want: []types.Place{{
				ID: "id-1", Name: "A", Address: "B",
				Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A",
			}},
		},
		{
			name:  "empty cell preserved",
			input: "|---|---|---|---|---|---|\n| A | B | 4.0 |  | w | p |\n",
			want: []types.Place{{
				ID: "id-1", Name: "A", Address: "B",
				Rating: "4.0", Reviews: "", Website: "w", Phone: "p",
			}},
		},
		{
			name:  "extra columns ignored",
			input: "|---|\n| A | B | C | D | E | F | G | H |\n",
			want: []types.Place{{
				ID: "id-1", Name: "A", Address: "B",
				Rating: "C", Reviews: "D", Website: "E", Phone: "F",
			}},
		},
		{
			name:  "prose between rows is skipped",
			input: "|---|---|\n| A | B |\nsome note\n\n  | C | D |  \n",
			want: []types.Place{
				{ID: "id-1", Name: "A", Address: "B", Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A"},
				{ID: "id-2", Name: "C", Address: "D", Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A"},
			},
		},
		{
			name:  "crlf line endings",
			input: "| Name | Address |\r\n|---|---|\r\n| A | B |\r\n",
			want: []types.Place{
				{ID: "id-1", Name: "A", Address: "B", Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A"},
			},
		},
		{
			name:  "only first separator counts",
			input: "|---|---|\n| A | B |\n|---|---|\n",
			want: []types.Place{
				{ID: "id-1", Name: "A", Address: "B", Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A"},
				{ID: "id-2", Name: "---", Address: "---", Rating: "N/A", Reviews: "N/A", Website: "N/A", Phone: "N/A"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parser{NewID: sequentialIDs()}
			assert.Equal(t, tt.want, p.Parse(tt.input))
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := ParseTable(sampleTable)
	second := ParseTable(sampleTable)
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Fields(), second[i].Fields())
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestParse_NilIDFunc(t *testing.T) {
	p := &Parser{}
	places := p.Parse("|---|---|\n| A | B |\n")
	require.Len(t, places, 1)
	assert.NotEmpty(t, places[0].ID)
}

func TestParse_ManyRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("| Name | Address | Rating | Reviews | Website | Phone |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "| Place %d | %d Road | 4 | %d | N/A | N/A |\n", i, i, i*10)
	}

	places := ParseTable(b.String())
	require.Len(t, places, 50)
	for i, p := range places {
		assert.Equal(t, fmt.Sprintf("Place %d", i), p.Name)
	}
}
