package app

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	idSuffixLen = 9
	idAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// idSource issues "<unix millis><9 base36 chars>" ids.
type idSource struct {
	now func() time.Time
}

func newIDSource() *idSource {
	return &idSource{now: time.Now}
}

func (g *idSource) next(exists func(string) bool) string {
	for {
		id := strconv.FormatInt(g.now().UnixMilli(), 10) + randomSuffix()
		if exists == nil || !exists(id) {
			return id
		}
	}
}

func randomSuffix() string {
	buf := make([]byte, idSuffixLen)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			buf[i] = idAlphabet[time.Now().UnixNano()%int64(len(idAlphabet))]
			continue
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf)
}
