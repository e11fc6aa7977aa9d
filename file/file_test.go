package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePieceNumMap(t *testing.T) {
	res := CreatePieceNumMap([]string{"bwv77.mid", "kyrie.yaml"})
	assert.Equal(t, map[int]string{0: "bwv77.mid", 1: "kyrie.yaml"}, res)
}
