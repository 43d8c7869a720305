package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"food-aid-distribution-api-server/internal/models"
	"food-aid-distribution-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// approvedRequestDoc dựng document một yêu cầu đã duyệt cho mock FindOne.
func approvedRequestDoc(requestID, item string, amount int) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "requestID", Value: requestID},
		{Key: "organization", Value: "Shelter A"},
		{Key: "item", Value: item},
		{Key: "amount", Value: amount},
		{Key: "status", Value: models.RequestStatusApproved},
		{Key: "contactEmail", Value: "shelter-a@example.com"},
		{Key: "requestedDate", Value: "2026-08-29"},
		{Key: "createdBy", Value: "citizen-9f8e7d6c"},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
	}
}

func TestCreateRequest(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("submission creates a pending request dated today", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests", jsonBody(
			`{"organization":"Shelter A","item":"Rice","amount":20,"contactEmail":"shelter-a@example.com"}`))
		h.CreateRequest(c)

		require.Equal(mt, http.StatusCreated, w.Code)

		var created models.DistributionRequest
		require.NoError(mt, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(mt, "Shelter A", created.Organization)
		assert.Equal(mt, "Rice", created.Item)
		assert.Equal(mt, 20, created.Amount)
		assert.Equal(mt, models.RequestStatusPending, created.Status)
		assert.Equal(mt, time.Now().Format("2006-01-02"), created.RequestedDate)
		assert.NotEmpty(mt, created.RequestID)
	})

	mt.Run("signed-in submitter is recorded as creator", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests", jsonBody(
			`{"organization":"Shelter A","item":"Rice","amount":20,"contactEmail":"shelter-a@example.com"}`))
		c.Set("user_id", "citizen-9f8e7d6c")
		h.CreateRequest(c)

		require.Equal(mt, http.StatusCreated, w.Code)

		var created models.DistributionRequest
		require.NoError(mt, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(mt, "citizen-9f8e7d6c", created.CreatedBy)
	})

	mt.Run("amount below 1 rejected before any database call", func(mt *mtest.T) {
		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests", jsonBody(
			`{"organization":"Shelter A","item":"Rice","amount":0,"contactEmail":"shelter-a@example.com"}`))
		h.CreateRequest(c)

		assert.Equal(mt, http.StatusBadRequest, w.Code)
	})

	mt.Run("missing contact email rejected", func(mt *mtest.T) {
		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests", jsonBody(
			`{"organization":"Shelter A","item":"Rice","amount":20}`))
		h.CreateRequest(c)

		assert.Equal(mt, http.StatusBadRequest, w.Code)
	})
}

func TestApproveRequest(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending request is approved", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-1/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-1"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ApproveRequest(c)

		require.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), models.RequestStatusApproved)
	})

	mt.Run("non-pending request is a no-op conflict", func(mt *mtest.T) {
		// Filter có điều kiện status=Pending không khớp document nào
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-1/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-1"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ApproveRequest(c)

		assert.Equal(mt, http.StatusConflict, w.Code)
	})
}

func TestShipRequest(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insufficient stock aborts without mutating anything", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(
			// 1. FindOne: request Approved, muốn 10 Dry Pasta
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, approvedRequestDoc("REQ-1", "Dry Pasta", 10)),
			// 2. UpdateOne tồn kho: không khớp (chỉ còn 5 < 10) -> abort
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			// 3. abortTransaction
			mtest.CreateSuccessResponse(),
		)

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-1/ship", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-1"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ShipRequest(c)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "insufficient")
	})

	mt.Run("approved request with stock ships and creates a record", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(
			// 1. FindOne: request Approved, 100 Dry Pasta
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, approvedRequestDoc("REQ-2", "Dry Pasta", 100)),
			// 2. UpdateOne tồn kho: trừ 100, thành công
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
			// 3. UpdateOne request: Approved -> Shipped
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
			// 4. InsertOne distribution record
			mtest.CreateSuccessResponse(),
			// 5. commitTransaction
			mtest.CreateSuccessResponse(),
		)

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-2/ship", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-2"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ShipRequest(c)

		require.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), models.RequestStatusShipped)

		var resp struct {
			Record models.DistributionRecord `json:"record"`
		}
		require.NoError(mt, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(mt, "citizen-9f8e7d6c", resp.Record.RecipientID)
		assert.Equal(mt, "Dry Pasta", resp.Record.FoodItem)
		assert.Equal(mt, 100, resp.Record.Quantity)
		assert.Equal(mt, models.RecordStatusPending, resp.Record.Status)
	})

	mt.Run("unknown request returns 404", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-404/ship", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-404"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ShipRequest(c)

		assert.Equal(mt, http.StatusNotFound, w.Code)
	})

	mt.Run("pending request cannot be shipped", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".requests"
		doc := approvedRequestDoc("REQ-3", "Rice", 20)
		for i, e := range doc {
			if e.Key == "status" {
				doc[i].Value = models.RequestStatusPending
			}
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, doc),
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-3/ship", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-3"}}
		c.Set("user_id", "manager-1a2b3c4d")
		h.ShipRequest(c)

		assert.Equal(mt, http.StatusConflict, w.Code)
	})
}

func TestResetRequest(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("shipped request resets to pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-1/reset", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-1"}}
		h.ResetRequest(c)

		require.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), models.RequestStatusPending)
	})

	mt.Run("pending request cannot be reset again", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodPost, "/requests/REQ-1/reset", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-1"}}
		h.ResetRequest(c)

		assert.Equal(mt, http.StatusConflict, w.Code)
	})
}

func TestGetRequestByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not found", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		h := &RequestHandler{DB: mt.DB, Hub: socket.NewHub()}
		c, w := newTestContext(mt.T, http.MethodGet, "/requests/REQ-404", nil)
		c.Params = []gin.Param{{Key: "id", Value: "REQ-404"}}
		h.GetRequestByID(c)

		assert.Equal(mt, http.StatusNotFound, w.Code)
	})
}
