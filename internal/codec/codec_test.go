package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
)

const orderFrame = `{
	"id": 7,
	"status": "PENDIENTE",
	"total": 45.5,
	"latitude": 4.60971,
	"longitude": -74.08175,
	"orderDetails": [
		{"id": 1, "amount": 2, "unitPrice": 12.0,
		 "product": {"id": 3, "name": "Bandeja paisa", "urlImage": "http://img/3.png",
		             "restaurant": {"name": "La Fonda", "latitude": 4.6, "longitude": -74.0}}}
	],
	"customer": {"id": 9, "userEntity": {"name": "Ana", "phone": "3001234567", "address": "Cll 10 #4-21"}},
	"customerId": 9
}`

func TestDecodeOrderEvent(t *testing.T) {
	snap, err := DecodeOrderEvent([]byte(orderFrame))
	require.NoError(t, err)
	require.Equal(t, int64(7), snap.ID)
	require.Equal(t, domain.StatusPendiente, snap.Status)
	require.Equal(t, 45.5, snap.Total)
	require.Len(t, snap.OrderDetails, 1)
	require.Equal(t, "Bandeja paisa", snap.OrderDetails[0].Product.Name)
	require.NotNil(t, snap.OrderDetails[0].Product.Restaurant)
	require.Equal(t, "Ana", snap.Customer.UserEntity.Name)
	require.Zero(t, snap.DealerID)
}

func TestDecodeOrderEventRejects(t *testing.T) {
	cases := map[string]string{
		"garbage":        `{{{`,
		"missing id":     `{"status":"PENDIENTE"}`,
		"zero id":        `{"id":0,"status":"PENDIENTE"}`,
		"unknown status": `{"id":1,"status":"SHIPPED"}`,
		"empty status":   `{"id":1}`,
		"unknown field":  `{"id":1,"status":"PENDIENTE","surprise":true}`,
	}
	for name, frame := range cases {
		_, err := DecodeOrderEvent([]byte(frame))
		require.ErrorIs(t, err, ErrBadFrame, name)
	}
}

func TestDecodeErrorEvent(t *testing.T) {
	ev, err := DecodeErrorEvent([]byte(`{"orderId":4,"errors":["order already taken"]}`))
	require.NoError(t, err)
	require.Equal(t, int64(4), ev.OrderID)
	require.Equal(t, []string{"order already taken"}, ev.Errors)

	// observed payloads omit the order id
	ev, err = DecodeErrorEvent([]byte(`{"errors":["invalid transition"]}`))
	require.NoError(t, err)
	require.Zero(t, ev.OrderID)

	_, err = DecodeErrorEvent([]byte(`{"errors":[]}`))
	require.ErrorIs(t, err, ErrBadFrame)
	_, err = DecodeErrorEvent([]byte(`not json`))
	require.ErrorIs(t, err, ErrBadFrame)
}

func TestEncodeStatusCommand(t *testing.T) {
	b, err := EncodeStatusCommand(domain.StatusCommand{OrderID: 7, DealerID: 5, Status: domain.StatusEnCamino})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, float64(7), got["orderId"])
	require.Equal(t, float64(5), got["dealerId"])
	require.Equal(t, "EN_CAMINO", got["status"])

	_, err = EncodeStatusCommand(domain.StatusCommand{OrderID: 7, Status: domain.StatusEnCamino})
	require.ErrorIs(t, err, ErrBadFrame)
	_, err = EncodeStatusCommand(domain.StatusCommand{OrderID: 7, DealerID: 5, Status: "SHIPPED"})
	require.ErrorIs(t, err, ErrBadFrame)
}
