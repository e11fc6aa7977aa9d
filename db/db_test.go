package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches []int
	gets    int
	// unprocessed is how many keys each successive batch call leaves for
	// the caller to resend.
	unprocessed []int
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	res := make(map[string][]map[string]*dynamodb.AttributeValue)
	var left map[string]*dynamodb.KeysAndAttributes
	for table, ka := range in.RequestItems {
		f.batches = append(f.batches, len(ka.Keys))
		keys := ka.Keys
		if len(f.unprocessed) > 0 {
			n := f.unprocessed[0]
			f.unprocessed = f.unprocessed[1:]
			if n > len(keys) {
				n = len(keys)
			}
			if n > 0 {
				left = map[string]*dynamodb.KeysAndAttributes{table: {Keys: keys[len(keys)-n:]}}
				keys = keys[:len(keys)-n]
			}
		}
		for _, k := range keys {
			if item, ok := f.items[*k["PK"].S]; ok {
				res[table] = append(res[table], item)
			}
		}
	}
	return &dynamodb.BatchGetItemOutput{Responses: res, UnprocessedKeys: left}, nil
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	f.gets++
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func item(pathname string, languages ...string) map[string]*dynamodb.AttributeValue {
	var langs []*dynamodb.AttributeValue
	for _, l := range languages {
		langs = append(langs, &dynamodb.AttributeValue{S: aws.String(l)})
	}
	return map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(pathname)},
		"languages": {L: langs},
		"year":      {N: aws.String("1724")},
	}
}

func TestDynamoLookup(t *testing.T) {
	client := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{
		"bwv77.mid": item("bwv77.mid", "German"),
	}}
	d := NewDynamo(client, "voicelead-metadata")

	assert := assert.New(t)
	fields, err := d.Lookup("bwv77.mid")
	assert.NoError(err)
	assert.Equal([]any{"German"}, fields["languages"])
	assert.Equal(1724.0, fields["year"])
	assert.NotContains(fields, "PK")

	_, err = d.Lookup("bwv77.mid")
	assert.NoError(err)
	assert.Equal(1, client.gets)

	missing, err := d.Lookup("unknown.mid")
	assert.NoError(err)
	assert.Empty(missing)
}

func TestDynamoPrefetchBatches(t *testing.T) {
	client := &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
	var paths []string
	for i := 0; i < 250; i++ {
		p := fmt.Sprintf("piece%03d.mid", i)
		paths = append(paths, p)
		client.items[p] = item(p, "Latin")
	}
	d := NewDynamo(client, "voicelead-metadata")

	assert.NoError(t, d.Prefetch(paths))
	assert.Equal(t, []int{100, 100, 50}, client.batches)

	fields, err := d.Lookup("piece042.mid")
	assert.NoError(t, err)
	assert.Equal(t, []any{"Latin"}, fields["languages"])
	assert.Equal(t, 0, client.gets)
}

func TestMetaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	doc := `{"bwv77.mid": {"languages": [{"title": "German"}], "genres": ["Chorale"]}}`
	assert.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := ReadMetaFile(path)
	assert.NoError(t, err)

	cases := []struct {
		name     string
		pathname string
		expected map[string]any
	}{
		{"file name", "/corpus/bach/bwv77.mid", map[string]any{"languages": []any{"German"}, "genres": []any{"Chorale"}}},
		{"exact", "bwv77.mid", map[string]any{"languages": []any{"German"}, "genres": []any{"Chorale"}}},
		{"unknown", "kyrie.mid", map[string]any{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fields, err := m.Lookup(c.pathname)
			assert.NoError(t, err)
			assert.Equal(t, c.expected, fields)
		})
	}
}

func TestDynamoPrefetchResendsUnprocessedKeys(t *testing.T) {
	cases := []struct {
		name        string
		unprocessed []int
		batches     []int
		gets        int
	}{
		{"all processed", nil, []int{4}, 0},
		{"resent once", []int{3}, []int{4, 3}, 0},
		{"resent twice", []int{3, 1}, []int{4, 3, 1}, 0},
		{"left to lookup", []int{3, 2, 2}, []int{4, 3, 2}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client := &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue), unprocessed: c.unprocessed}
			var paths []string
			for i := 0; i < 4; i++ {
				p := fmt.Sprintf("piece%d.mid", i)
				paths = append(paths, p)
				client.items[p] = item(p, "Latin")
			}
			d := NewDynamo(client, "voicelead-metadata")

			assert := assert.New(t)
			assert.NoError(d.Prefetch(paths))
			assert.Equal(c.batches, client.batches)
			for _, p := range paths {
				fields, err := d.Lookup(p)
				assert.NoError(err)
				assert.Equal([]any{"Latin"}, fields["languages"])
			}
			assert.Equal(c.gets, client.gets)
		})
	}
}
