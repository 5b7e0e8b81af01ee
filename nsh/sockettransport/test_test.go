package sockettransport_test

import (
	"github.com/usnistgov/nshsfc/core/testenv"
)

var makeAR = testenv.MakeAR
