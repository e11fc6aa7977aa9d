// Package db looks up piece metadata kept outside the scores.
package db

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/voicelead/constants"
	"github.com/jsphweid/voicelead/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dynamo reads metadata from a DynamoDB table keyed by pathname in "PK".
// Items fetched by Prefetch are kept and served without another request.
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string

	mu    sync.Mutex
	items map[string]map[string]any
}

func NewDynamo(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table, items: make(map[string]map[string]any)}
}

// DefaultDynamo connects to the endpoint and table named by the environment.
func DefaultDynamo() (*Dynamo, error) {
	endpoint := constants.GetDynamoEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Could not create a new DynamoDB session")
	}
	return NewDynamo(dynamodb.New(sess), constants.GetMetadataTable()), nil
}

func key(pathname string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(pathname)}}
}

func decode(item map[string]*dynamodb.AttributeValue) (map[string]any, error) {
	res := make(map[string]any)
	if err := dynamodbattribute.UnmarshalMap(item, &res); err != nil {
		return nil, err
	}
	delete(res, "PK")
	return res, nil
}

// maxBatchAttempts bounds how often one batch is resent for the keys
// DynamoDB left unprocessed.
const maxBatchAttempts = 3

// Prefetch loads many pathnames in as few requests as the batch limit
// allows. Keys still unprocessed after maxBatchAttempts are left to Lookup.
func (d *Dynamo) Prefetch(pathnames []string) error {
	for start := 0; start < len(pathnames); start += constants.DynamoBatchSize {
		end := start + constants.DynamoBatchSize
		if end > len(pathnames) {
			end = len(pathnames)
		}
		keys := make([]map[string]*dynamodb.AttributeValue, 0, end-start)
		for _, p := range pathnames[start:end] {
			keys = append(keys, key(p))
		}
		pending := map[string]*dynamodb.KeysAndAttributes{d.table: {Keys: keys}}
		for attempt := 0; attempt < maxBatchAttempts && len(pending) > 0; attempt++ {
			res, err := d.client.BatchGetItem(&dynamodb.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return errors.Wrap(err, "Error from DynamoDB")
			}
			if err := d.store(res.Responses[d.table]); err != nil {
				return err
			}
			pending = res.UnprocessedKeys
		}
		if left := pending[d.table]; left != nil && len(left.Keys) > 0 {
			log.Printf("DynamoDB left %v of %v metadata keys unprocessed, looking them up one by one", len(left.Keys), len(keys))
		}
	}
	return nil
}

func (d *Dynamo) store(items []map[string]*dynamodb.AttributeValue) error {
	for _, item := range items {
		pk := item["PK"]
		if pk == nil || pk.S == nil {
			continue
		}
		fields, err := decode(item)
		if err != nil {
			return errors.Wrapf(err, "decoding metadata of %s", *pk.S)
		}
		d.mu.Lock()
		d.items[*pk.S] = fields
		d.mu.Unlock()
	}
	return nil
}

// Lookup returns the fields stored for pathname, or an empty map when the
// table has no item for it.
func (d *Dynamo) Lookup(pathname string) (map[string]any, error) {
	d.mu.Lock()
	fields, ok := d.items[pathname]
	d.mu.Unlock()
	if ok {
		return fields, nil
	}

	res, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       key(pathname),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Error from DynamoDB looking up %s", pathname)
	}
	if res.Item == nil {
		return map[string]any{}, nil
	}
	fields, err = decode(res.Item)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding metadata of %s", pathname)
	}
	d.mu.Lock()
	d.items[pathname] = fields
	d.mu.Unlock()
	return fields, nil
}

// MetaFile is metadata scraped ahead of time into one JSON or YAML document
// mapping pathnames to their fields.
type MetaFile map[string]map[string]any

func ReadMetaFile(pathname string) (MetaFile, error) {
	dat, err := os.ReadFile(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", pathname)
	}
	var res MetaFile
	if err := yaml.Unmarshal(dat, &res); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", pathname)
	}
	return res, nil
}

// Lookup matches the full pathname first, then the file name alone. Lists
// of single-entry objects such as languages: [{title: Latin}] are flattened
// to their values.
func (m MetaFile) Lookup(pathname string) (map[string]any, error) {
	fields, ok := m[pathname]
	if !ok {
		fields, ok = m[filepath.Base(pathname)]
	}
	if !ok {
		return map[string]any{}, nil
	}
	res := make(map[string]any, len(fields))
	for k, v := range fields {
		res[k] = flatten(v)
	}
	return res, nil
}

func flatten(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	res := make([]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			res = append(res, item)
			continue
		}
		for _, k := range util.GetKeys(obj) {
			res = append(res, obj[k])
		}
	}
	return res
}
