package transport

// Func adapts a function to the Transport interface
type Func func(Request) Response

func (f Func) Request(req Request) Response {
	return f(req)
}

// Split routes every request to the transport chosen by route.
// A routing error is returned as the response error, no transport is called.
func Split(route func(Request) (Transport, error)) Transport {
	return Func(func(req Request) Response {
		tr, err := route(req)
		if err != nil {
			return NewErrorResponse(err)
		}

		return tr.Request(req)
	})
}

// SplitSubscription sends subscriptions through subtr and queries and mutations through othertr
func SplitSubscription(subtr, othertr Transport) Transport {
	return Split(func(req Request) (Transport, error) {
		switch req.Operation {
		case Subscription:
			return subtr, nil
		default:
			return othertr, nil
		}
	})
}
