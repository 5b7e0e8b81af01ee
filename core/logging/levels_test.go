package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usnistgov/nshsfc/core/logging"
)

func TestPkgLevel(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("NSHSFC_LOG", "W")
	t.Setenv("NSHSFC_LOG_LevelTestB", "D")

	plA := logging.GetLevel("LevelTestA")
	assert.Equal(byte('W'), plA.Level())
	assert.Equal("LevelTestA", plA.Package())
	assert.Equal(byte('D'), logging.GetLevel("LevelTestB").Level())
	assert.Same(plA, logging.FindLevel("LevelTestA"))
	assert.Nil(logging.FindLevel("LevelTestC"))

	plA.SetLevel("error")
	assert.Equal(byte('E'), plA.Level())
	plA.SetLevel("x")
	assert.Equal(byte('I'), plA.Level())
	plA.SetLevel("")
	assert.Equal(byte('I'), plA.Level())

	var pkgs []string
	for _, pl := range logging.ListLevels() {
		pkgs = append(pkgs, pl.Package())
	}
	assert.Subset(pkgs, []string{"LevelTestA", "LevelTestB"})
	assert.IsIncreasing(pkgs)
}
