// Package codes turns internal row sequences into the short opaque codes
// printed on public vendor cards.
package codes

import (
	"errors"

	hashids "github.com/speps/go-hashids/v2"
)

var ErrBadCode = errors.New("malformed card code")

type CardCodec struct {
	h *hashids.HashID
}

func NewCardCodec(salt string) (*CardCodec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 8

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &CardCodec{h: h}, nil
}

func (c *CardCodec) Encode(seq int64) (string, error) {
	return c.h.EncodeInt64([]int64{seq})
}

func (c *CardCodec) Decode(code string) (int64, error) {
	nums, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(nums) != 1 {
		return 0, ErrBadCode
	}
	return nums[0], nil
}
