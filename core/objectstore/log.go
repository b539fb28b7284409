package objectstore

import "github.com/graphenechain/ledgercore/internal/logger"

var log = logger.RegisterSubSystem("STOR")
