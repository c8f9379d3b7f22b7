package client

import "errors"

var ErrUnsupportedBackend = errors.New("unsupported backend")
