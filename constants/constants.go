package constants

import "os"

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// GetOutputDir is where exports go when no pathname is given.
func GetOutputDir() string {
	return getenv("OUTPUT_PATH", "./out")
}

func GetMetadataTable() string {
	return getenv("METADATA_TABLE", "voicelead-metadata")
}

func GetDynamoEndpoint() string {
	return getenv("DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("DYNAMO_REGION", "localhost")
}

// DynamoBatchSize is the most keys one BatchGetItem call accepts.
const DynamoBatchSize = 100

// ScoreExtensions are the file types pieces are gathered from.
var ScoreExtensions = []string{".mid", ".midi", ".yaml", ".yml", ".json"}
