package bookingRepo

import "errors"

var ErrUnknownBookingType = errors.New("unknown booking type")
