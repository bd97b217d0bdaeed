/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	liberr "github.com/nabbar/netkit/errors"
)

// Load decodes a Socket from the given key of v, starting from
// DefaultSocket so unset fields keep the spec §6 constants, then
// validates the result.
func Load(v *viper.Viper, key string) (Socket, error) {
	cfg := DefaultSocket()

	if v == nil {
		return cfg, liberr.New(liberr.NullPointer, "config: viper instance must not be nil")
	}
	if !v.IsSet(key) {
		return cfg, nil
	}

	if err := v.UnmarshalKey(key, &cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return cfg, liberr.New(liberr.InvalidParameter, "config: decode failed", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEndpoint decodes an Endpoint from the given key of v and
// validates it.
func LoadEndpoint(v *viper.Viper, key string) (Endpoint, error) {
	var ep Endpoint

	if v == nil {
		return ep, liberr.New(liberr.NullPointer, "config: viper instance must not be nil")
	}
	if err := v.UnmarshalKey(key, &ep); err != nil {
		return ep, liberr.New(liberr.InvalidParameter, "config: decode failed", err)
	}
	if err := ep.Validate(); err != nil {
		return ep, err
	}
	return ep, nil
}
