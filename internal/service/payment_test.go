package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/gateway"
	gatewaymocks "github.com/benx421/carmarket/internal/gateway/mocks"
	"github.com/benx421/carmarket/internal/models"
	"github.com/benx421/carmarket/internal/repository"
	"github.com/benx421/carmarket/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCheckoutURL = "https://checkout.chapa.co/checkout/payment/abc123"

func newTestPaymentService(payments repository.PaymentRepository, cars repository.CarRepository, gw gateway.Client) *PaymentService {
	return NewPaymentService(payments, cars, gw, testConfig(), testMetrics(), testLogger())
}

func validRequest() CreatePaymentRequest {
	return CreatePaymentRequest{
		CarID:  testCarID.String(),
		Amount: "500000",
		Phone:  "0911234567",
	}
}

func TestPaymentService_CreatePayment_Success(t *testing.T) {
	payments := newMemoryPaymentRepository()
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)
	buyer := testBuyer()

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)

	var sent gateway.InitializeRequest
	gw.On("Initialize", mock.Anything, mock.AnythingOfType("gateway.InitializeRequest")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(gateway.InitializeRequest) }).
		Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)

	result, err := svc.CreatePayment(context.Background(), buyer, validRequest())

	require.NoError(t, err)
	assert.Equal(t, testCheckoutURL, result.CheckoutURL)
	assert.True(t, strings.HasPrefix(result.Payment.TransactionRef, "CAR_ddeeff00_"))
	assert.LessOrEqual(t, len(result.Payment.TransactionRef), 50)
	assert.Equal(t, models.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, "chapa", result.Payment.Gateway)
	assert.Equal(t, "ETB", result.Payment.Currency)
	assert.True(t, decimal.NewFromInt(500000).Equal(result.Payment.Amount))

	stored, err := payments.FindByRef(context.Background(), result.Payment.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, testCheckoutURL, stored.Metadata.CheckoutURL)
	assert.Equal(t, "Toyota", stored.Metadata.CarMake)
	assert.Equal(t, "Corolla", stored.Metadata.CarModel)
	assert.Equal(t, testSellerID.String(), stored.Metadata.SellerID)
	assert.Empty(t, stored.Metadata.ReservationToken)

	assert.Equal(t, result.Payment.TransactionRef, sent.TxRef)
	assert.Equal(t, "abebe@example.com", sent.Email)
	assert.Equal(t, "Abebe", sent.FirstName)
	assert.Equal(t, "Bikila", sent.LastName)
	assert.Equal(t, "0911234567", sent.PhoneNumber)
	assert.Equal(t, "ETB", sent.Currency)
	assert.Equal(t, "http://localhost:8080/payments/callback", sent.CallbackURL)
	assert.Equal(t, "http://localhost:3000/cars/"+testCarID.String(), sent.ReturnURL)
	assert.Equal(t, "Payment for Toyota Corolla (ID: "+testCarID.String()+")", sent.Description)

	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.PaymentsCreated.WithLabelValues("initialized")))
}

func TestPaymentService_CreatePayment_InvalidInputHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "negative amount", amount: "-5"},
		{name: "zero amount", amount: "0"},
		{name: "above ceiling", amount: "2000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := mocks.NewMockPaymentRepository(t)
			cars := mocks.NewMockCarRepository(t)
			gw := gatewaymocks.NewMockClient(t)
			svc := newTestPaymentService(payments, cars, gw)

			req := validRequest()
			req.Amount = tt.amount

			result, err := svc.CreatePayment(context.Background(), testBuyer(), req)

			assert.Nil(t, result)
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, ErrCodeInvalidInput, svcErr.Code)

			cars.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			gw.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_CreatePayment_Unauthenticated(t *testing.T) {
	svc := newTestPaymentService(mocks.NewMockPaymentRepository(t), mocks.NewMockCarRepository(t), gatewaymocks.NewMockClient(t))

	_, err := svc.CreatePayment(context.Background(), nil, validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeUnauthenticated, svcErr.Code)
}

func TestPaymentService_CreatePayment_CarNotFound(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	svc := newTestPaymentService(payments, cars, gatewaymocks.NewMockClient(t))

	cars.On("FindByID", mock.Anything, testCarID).Return(nil, models.ErrNotFound)

	_, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeCarNotFound, svcErr.Code)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_CreatePayment_AmountPolicy(t *testing.T) {
	t.Run("warn lets a mismatched amount through", func(t *testing.T) {
		payments := newMemoryPaymentRepository()
		cars := mocks.NewMockCarRepository(t)
		gw := gatewaymocks.NewMockClient(t)
		svc := newTestPaymentService(payments, cars, gw)

		cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
		gw.On("Initialize", mock.Anything, mock.Anything).
			Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)

		req := validRequest()
		req.Amount = "400000"

		result, err := svc.CreatePayment(context.Background(), testBuyer(), req)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(400000).Equal(result.Payment.Amount))
	})

	t.Run("reject refuses a mismatched amount", func(t *testing.T) {
		payments := mocks.NewMockPaymentRepository(t)
		cars := mocks.NewMockCarRepository(t)
		cfg := testConfig()
		cfg.Payments.AmountPolicy = config.AmountPolicyReject
		svc := NewPaymentService(payments, cars, gatewaymocks.NewMockClient(t), cfg, testMetrics(), testLogger())

		cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)

		req := validRequest()
		req.Amount = "400000"

		_, err := svc.CreatePayment(context.Background(), testBuyer(), req)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInvalidInput, svcErr.Code)
		assert.Contains(t, svcErr.Message, "500000.00")
	})

	t.Run("reject allows differences within tolerance", func(t *testing.T) {
		payments := newMemoryPaymentRepository()
		cars := mocks.NewMockCarRepository(t)
		gw := gatewaymocks.NewMockClient(t)
		cfg := testConfig()
		cfg.Payments.AmountPolicy = config.AmountPolicyReject
		svc := NewPaymentService(payments, cars, gw, cfg, testMetrics(), testLogger())

		cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
		gw.On("Initialize", mock.Anything, mock.Anything).
			Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)

		req := validRequest()
		req.Amount = "499900"

		_, err := svc.CreatePayment(context.Background(), testBuyer(), req)

		assert.NoError(t, err)
	})
}

func TestPaymentService_CreatePayment_GatewayRejected(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	payload := json.RawMessage(`{"message":"Invalid currency","status":"failed","data":null}`)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentTransaction")).Return(nil)
	gw.On("Initialize", mock.Anything, mock.Anything).
		Return(nil, &gateway.RejectedError{StatusCode: 400, Message: "Invalid currency", Payload: payload})
	payments.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(p models.PaymentPatch) bool {
		return p.Status != nil && *p.Status == models.PaymentStatusFailed &&
			p.ExpectStatus != nil && *p.ExpectStatus == models.PaymentStatusPending &&
			p.Metadata != nil && p.Metadata.InitError == "Invalid currency"
	})).Return(&models.PaymentTransaction{Status: models.PaymentStatusFailed}, nil)

	result, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	assert.Nil(t, result)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeGatewayRejected, svcErr.Code)
	assert.JSONEq(t, string(payload), string(svcErr.Detail))
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.PaymentsCreated.WithLabelValues("rejected")))
}

func TestPaymentService_CreatePayment_GatewayUnavailable(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentTransaction")).Return(nil)
	gw.On("Initialize", mock.Anything, mock.Anything).
		Return(nil, &gateway.UnavailableError{Op: "initialize", Err: context.DeadlineExceeded})
	payments.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(p models.PaymentPatch) bool {
		return p.Status == nil && p.Metadata != nil && p.Metadata.InitError != "" &&
			p.ExpectStatus != nil && *p.ExpectStatus == models.PaymentStatusPending
	})).Return(&models.PaymentTransaction{Status: models.PaymentStatusPending}, nil)

	_, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeGatewayUnavailable, svcErr.Code)
	assert.True(t, errors.Is(err, gateway.ErrUnavailable))
}

func TestPaymentService_CreatePayment_GatewayUnavailableAfterSettlement(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentTransaction")).Return(nil)
	gw.On("Initialize", mock.Anything, mock.Anything).
		Return(nil, &gateway.UnavailableError{Op: "initialize", Err: context.DeadlineExceeded})
	payments.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil, models.ErrStatusConflict)

	_, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeGatewayUnavailable, svcErr.Code)
}

func TestPaymentService_CreatePayment_SettledBeforeCheckoutStored(t *testing.T) {
	payments := newMemoryPaymentRepository()
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	verification := json.RawMessage(`{"status":"success"}`)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	gw.On("Initialize", mock.Anything, mock.AnythingOfType("gateway.InitializeRequest")).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(gateway.InitializeRequest)
			stored, err := payments.FindByRef(context.Background(), req.TxRef)
			require.NoError(t, err)

			completed := models.PaymentStatusCompleted
			pending := models.PaymentStatusPending
			metadata := stored.Metadata
			metadata.VerificationPayload = verification
			_, err = payments.Update(context.Background(), stored.ID, models.PaymentPatch{
				Status:       &completed,
				Metadata:     &metadata,
				ExpectStatus: &pending,
			})
			require.NoError(t, err)
		}).
		Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)

	result, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, testCheckoutURL, result.CheckoutURL)
	assert.Equal(t, models.PaymentStatusCompleted, result.Payment.Status)

	stored, err := payments.FindByRef(context.Background(), result.Payment.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
	assert.JSONEq(t, string(verification), string(stored.Metadata.VerificationPayload))
	assert.Empty(t, stored.Metadata.CheckoutURL, "settled record is not overwritten")
}

func TestPaymentService_CreatePayment_PersistenceFailure(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeInternalError, svcErr.Code)
	gw.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestPaymentService_CreatePayment_RetriesReferenceCollision(t *testing.T) {
	payments := mocks.NewMockPaymentRepository(t)
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	var refs []string
	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentTransaction")).
		Run(func(args mock.Arguments) {
			refs = append(refs, args.Get(1).(*models.PaymentTransaction).TransactionRef)
		}).
		Return(models.ErrDuplicateReference).Once()
	payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentTransaction")).
		Run(func(args mock.Arguments) {
			refs = append(refs, args.Get(1).(*models.PaymentTransaction).TransactionRef)
		}).
		Return(nil).Once()
	gw.On("Initialize", mock.Anything, mock.Anything).
		Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)
	payments.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.PaymentTransaction{Status: models.PaymentStatusPending}, nil)

	_, err := svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1], "a fresh reference is generated per attempt")
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.ReferenceCollisions))
}

func TestPaymentService_CreatePayment_ReferenceExhausted(t *testing.T) {
	payments := newMemoryPaymentRepository()
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	svc.refs.now = func() time.Time { return time.UnixMilli(1760680000000) }
	svc.refs.random = constantReader(1)

	taken, err := svc.refs.Generate(testBuyer().ID)
	require.NoError(t, err)
	require.NoError(t, payments.Create(context.Background(), &models.PaymentTransaction{
		BuyerID:        testBuyer().ID,
		TransactionRef: taken,
		Gateway:        "chapa",
	}))

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)

	_, err = svc.CreatePayment(context.Background(), testBuyer(), validRequest())

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeReferenceExhausted, svcErr.Code)
	assert.Equal(t, 1, payments.count())
	assert.Equal(t, float64(3), testutil.ToFloat64(svc.metrics.ReferenceCollisions))
	gw.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestPaymentService_CreatePayment_PlaceholderContact(t *testing.T) {
	payments := newMemoryPaymentRepository()
	cars := mocks.NewMockCarRepository(t)
	gw := gatewaymocks.NewMockClient(t)
	svc := newTestPaymentService(payments, cars, gw)

	principal := &models.Principal{ID: testBuyer().ID, Email: "not-an-email"}

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)
	gw.On("Initialize", mock.Anything, mock.MatchedBy(func(req gateway.InitializeRequest) bool {
		return req.Email == "buyer-ddeeff00@mailinator.com" &&
			req.FirstName == "Customer" &&
			req.LastName == "User"
	})).Return(&gateway.InitializeResult{CheckoutURL: testCheckoutURL}, nil)

	_, err := svc.CreatePayment(context.Background(), principal, validRequest())

	require.NoError(t, err)
}

func TestPaymentService_CreatePayment_ConcurrentBuyersSameCar(t *testing.T) {
	payments := newMemoryPaymentRepository()
	cars := mocks.NewMockCarRepository(t)
	sandbox := gateway.NewSandbox(&testConfig().Gateway, testLogger())
	svc := newTestPaymentService(payments, cars, sandbox)

	cars.On("FindByID", mock.Anything, testCarID).Return(testCar(), nil)

	const buyers = 25
	results := make([]*CreatePaymentResult, buyers)
	errs := make([]error, buyers)

	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			principal := &models.Principal{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer"}
			results[i], errs[i] = svc.CreatePayment(context.Background(), principal, validRequest())
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, buyers)
	for i := range buyers {
		require.NoError(t, errs[i])
		assert.NotEmpty(t, results[i].CheckoutURL)
		ref := results[i].Payment.TransactionRef
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
	assert.Equal(t, buyers, payments.count())
}

func TestPaymentService_ListPayments(t *testing.T) {
	t.Run("requires a principal", func(t *testing.T) {
		svc := newTestPaymentService(mocks.NewMockPaymentRepository(t), nil, nil)

		_, err := svc.ListPayments(context.Background(), nil, 0)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeUnauthenticated, svcErr.Code)
	})

	limits := []struct {
		name      string
		requested int
		used      int
	}{
		{name: "default", requested: 0, used: 20},
		{name: "smaller", requested: 5, used: 5},
		{name: "capped", requested: 500, used: 20},
	}

	for _, tt := range limits {
		t.Run(tt.name, func(t *testing.T) {
			payments := mocks.NewMockPaymentRepository(t)
			svc := newTestPaymentService(payments, nil, nil)
			buyer := testBuyer()

			payments.On("ListByBuyer", mock.Anything, buyer.ID, "chapa", tt.used).
				Return([]models.PaymentTransaction{{TransactionRef: "CAR_1"}}, nil)

			got, err := svc.ListPayments(context.Background(), buyer, tt.requested)

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		payments := mocks.NewMockPaymentRepository(t)
		svc := newTestPaymentService(payments, nil, nil)

		payments.On("ListByBuyer", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("boom"))

		_, err := svc.ListPayments(context.Background(), testBuyer(), 0)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInternalError, svcErr.Code)
	})
}
