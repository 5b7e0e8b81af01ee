package logging

import (
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the environment variable name prefix for log levels.
// NSHSFC_LOG sets the default level, NSHSFC_LOG_<pkg> overrides it for one package.
const EnvPrefix = "NSHSFC_LOG"

// PkgLevel represents log level of a package.
type PkgLevel struct {
	pkg string
	lvl byte
	al  zap.AtomicLevel
}

// Package returns package name.
func (pl PkgLevel) Package() string {
	return pl.pkg
}

// Level returns log level as a letter.
func (pl PkgLevel) Level() byte {
	return pl.lvl
}

// SetLevel assigns log level.
// Only the first letter is significant: V/D debug, I info, W warn, E error, F/N fatal only.
// Anything else means info.
func (pl *PkgLevel) SetLevel(input string) {
	pl.lvl = 'I'
	if len(input) == 0 {
		pl.al.SetLevel(zapcore.InfoLevel)
		return
	}

	letter := strings.ToUpper(input[:1])[0]
	lvl, ok := letterLevels[letter]
	if !ok {
		pl.al.SetLevel(zapcore.InfoLevel)
		return
	}
	pl.lvl = letter
	pl.al.SetLevel(lvl)
}

var letterLevels = map[byte]zapcore.Level{
	'V': zapcore.DebugLevel,
	'D': zapcore.DebugLevel,
	'I': zapcore.InfoLevel,
	'W': zapcore.WarnLevel,
	'E': zapcore.ErrorLevel,
	'F': zapcore.DPanicLevel,
	'N': zapcore.DPanicLevel,
}

var (
	pkgLevelsLock sync.Mutex
	pkgLevels     = map[string]*PkgLevel{}
)

// ListLevels returns all package levels, sorted by package name.
func ListLevels() (list []PkgLevel) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	for _, pl := range pkgLevels {
		list = append(list, *pl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].pkg < list[j].pkg })
	return list
}

// FindLevel returns package log level object, or nil if the package has no logger.
func FindLevel(pkg string) *PkgLevel {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	return pkgLevels[pkg]
}

// GetLevel finds or creates package log level object.
func GetLevel(pkg string) *PkgLevel {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	pl := pkgLevels[pkg]
	if pl == nil {
		pl = &PkgLevel{pkg: pkg, al: zap.NewAtomicLevel()}
		pl.SetLevel(envLevel(pkg))
		pkgLevels[pkg] = pl
	}
	return pl
}

func envLevel(pkg string) string {
	v, ok := os.LookupEnv(EnvPrefix + "_" + pkg)
	if !ok {
		v = os.Getenv(EnvPrefix)
	}
	return v
}
