package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/events"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/OpenBar-api/internal/interfaces/http"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

// apiFixture API completa sobre el almacén en memoria: un rol barman con un rol cliente debajo.
type apiFixture struct {
	app          *fiber.App
	store        *memory.Store
	barmanRole   int64
	clientRole   int64
	barmanID     int64
	clientID     int64
	barmanHeader string
	clientHeader string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	s := memory.NewStore()

	roleUC := role.NewUseCase(s.Roles(), s.Permissions(), s, log)
	cards := usecase.NewCardIndex(s.CardSalts(), s.Users())
	userUC := usecase.NewUserUseCase(s.Users(), s.Roles(), cards)
	authUC := auth.NewAuthUseCase(s.Users(), s.Permissions(), cards, auth.NewLoginHistory(10),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: testIssuer}, log)
	orderUC := order.NewUseCase(s.Orders(), s.Users(), s, events.NewLogPublisher(log), pdf.NewReceiptGenerator("OpenBar"), log)

	app := apphttp.NewApp("openbar-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		Access:     auth.NewAccessChecker(s.Users(), s.Roles()),
		RoleUC:     roleUC,
		UserUC:     userUC,
		RechargeUC: usecase.NewRechargeUseCase(s.Recharges(), s),
		OrderUC:    orderUC,
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
	})

	f := &apiFixture{app: app, store: s}

	barman, err := roleUC.Create(ctx, dto.CreateRoleRequest{Name: "barman"})
	require.NoError(t, err)
	client, err := roleUC.Create(ctx, dto.CreateRoleRequest{Name: "cliente", ParentID: &barman.ID})
	require.NoError(t, err)
	f.barmanRole, f.clientRole = barman.ID, client.ID

	grant := func(roleID int64, lt entity.LoginType, name string, r entity.Range) {
		_, err := roleUC.AddPermission(ctx, roleID, dto.PermissionRequest{Name: name, LoginType: int(lt), Range: int(r)})
		require.NoError(t, err)
	}
	for _, p := range []string{entity.PermRoleRead, entity.PermRoleWrite, entity.PermUserWrite,
		entity.PermRechargeRead, entity.PermRechargeWrite, entity.PermOrderRead, entity.PermOrderManage} {
		grant(barman.ID, entity.LoginNormal, p, entity.RangeEveryone)
	}
	grant(barman.ID, entity.LoginNormal, entity.PermUserRead, entity.RangeUnderprivileged)
	grant(barman.ID, entity.LoginPassword, entity.PermRoleRead, entity.RangeEveryone)
	grant(client.ID, entity.LoginNormal, entity.PermOrderBasket, entity.RangeSelf)
	grant(client.ID, entity.LoginNormal, entity.PermOrderRead, entity.RangeSelf)
	grant(client.ID, entity.LoginPartial, entity.PermOrderRead, entity.RangeSelf)

	luis, ana := "luis", "ana"
	b, err := userUC.Create(ctx, dto.CreateUserRequest{Username: &luis, Password: "secreto123", FirstName: "Luis", Name: "Barra", RoleID: barman.ID, CardID: "CARD-B"})
	require.NoError(t, err)
	c, err := userUC.Create(ctx, dto.CreateUserRequest{Username: &ana, Password: "secreto123", FirstName: "Ana", Name: "Pérez", RoleID: client.ID, CardID: "CARD-C"})
	require.NoError(t, err)
	f.barmanID, f.clientID = b.ID, c.ID

	f.barmanHeader = "Bearer " + f.login(t, "username:luis", "secreto123").Token
	f.clientHeader = "Bearer " + f.login(t, "card_id:CARD-C", "secreto123").Token
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, authHeader string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) login(t *testing.T, username, password string) dto.TokenResponse {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/token", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &tok))
	return tok
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestAPI_CicloCompletoDePedido(t *testing.T) {
	f := newAPIFixture(t)

	// recarga de 500 por el barman
	resp, body := f.do(t, http.MethodPost, "/api/recharge", f.barmanHeader, dto.CreateRechargeRequest{ClientID: f.clientID, Value: 500})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// cesta: 3 x 100
	resp, body = f.do(t, http.MethodPut, "/api/order/basket/items/7?quantity=3&unit_price=100", f.clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	basket := decode[dto.OrderResponse](t, body)
	assert.EqualValues(t, 300, basket.Total)
	assert.Equal(t, entity.OrderStatusInBasket.String(), basket.Status)

	resp, body = f.do(t, http.MethodPut, "/api/order/basket/validate", f.clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, entity.OrderStatusValidated.String(), decode[dto.OrderResponse](t, body).Status)

	_, body = f.do(t, http.MethodGet, "/api/user/me", f.clientHeader, nil)
	assert.EqualValues(t, 200, decode[dto.UserResponse](t, body).Balance)

	// el ticket existe una vez validado
	resp, body = f.do(t, http.MethodGet, fmt.Sprintf("/api/order/%d/receipt", basket.ID), f.clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	// cancelar reembolsa; terminar después es 417
	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/order/cancel/%d", basket.ID), f.barmanHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	cancelled := decode[dto.OrderResponse](t, body)
	require.NotNil(t, cancelled.BarmanID)
	assert.Equal(t, f.barmanID, *cancelled.BarmanID)

	_, body = f.do(t, http.MethodGet, "/api/user/me", f.clientHeader, nil)
	assert.EqualValues(t, 500, decode[dto.UserResponse](t, body).Balance)

	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/order/finish/%d", basket.ID), f.barmanHeader, nil)
	assert.Equal(t, http.StatusExpectationFailed, resp.StatusCode)
	assert.Contains(t, string(body), "ALREADY_CANCELLED")
}

func TestAPI_SaldoInsuficienteYCantidadNegativa(t *testing.T) {
	f := newAPIFixture(t)
	_, _ = f.do(t, http.MethodPost, "/api/recharge", f.barmanHeader, dto.CreateRechargeRequest{ClientID: f.clientID, Value: 100})

	resp, _ := f.do(t, http.MethodPut, "/api/order/basket/items/1?quantity=-1&unit_price=100", f.clientHeader, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/order/basket/items/1?quantity=1&unit_price=300", f.clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPut, "/api/order/basket/validate", f.clientHeader, nil)
	assert.Equal(t, http.StatusExpectationFailed, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_FUNDS")

	// la cesta sigue editable y el saldo intacto
	_, body = f.do(t, http.MethodGet, "/api/order/basket", f.clientHeader, nil)
	assert.Equal(t, entity.OrderStatusInBasket.String(), decode[dto.OrderResponse](t, body).Status)
	_, body = f.do(t, http.MethodGet, "/api/user/me", f.clientHeader, nil)
	assert.EqualValues(t, 100, decode[dto.UserResponse](t, body).Balance)

	// el cliente no puede terminar pedidos
	resp, _ = f.do(t, http.MethodPut, "/api/order/finish/1", f.clientHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_RolesCicloYCascada(t *testing.T) {
	f := newAPIFixture(t)

	// barman bajo cliente: cliente ya cuelga de barman
	resp, body := f.do(t, http.MethodPut, fmt.Sprintf("/api/role/%d", f.barmanRole), f.barmanHeader,
		dto.UpdateRoleRequest{Name: "barman", ParentID: &f.clientRole})
	assert.Equal(t, http.StatusExpectationFailed, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_PARENT")

	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/role/%d", f.barmanRole), f.barmanHeader,
		dto.UpdateRoleRequest{Name: "barman", ParentID: &f.barmanRole})
	assert.Equal(t, http.StatusExpectationFailed, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, fmt.Sprintf("/api/role/%d/descendants", f.barmanRole), f.barmanHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	desc := decode[[]dto.RoleResponse](t, body)
	require.Len(t, desc, 1)
	assert.Equal(t, f.clientRole, desc[0].ID)

	// una hoja nueva sin usuarios se borra con su descendiente
	resp, body = f.do(t, http.MethodPost, "/api/role", f.barmanHeader, dto.CreateRoleRequest{Name: "temporal", ParentID: &f.clientRole})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	tmp := decode[dto.RoleResponse](t, body)
	resp, body = f.do(t, http.MethodPost, "/api/role", f.barmanHeader, dto.CreateRoleRequest{Name: "sub", ParentID: &tmp.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sub := decode[dto.RoleResponse](t, body)

	resp, body = f.do(t, http.MethodDelete, fmt.Sprintf("/api/role/%d", tmp.ID), f.barmanHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.ElementsMatch(t, []int64{tmp.ID, sub.ID}, decode[dto.DeletedResponse](t, body).Deleted)

	// con usuarios dentro el borrado es un conflicto
	resp, _ = f.do(t, http.MethodDelete, fmt.Sprintf("/api/role/%d", f.clientRole), f.barmanHeader, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/role", f.barmanHeader, dto.CreateRoleRequest{Name: "huérfano", ParentID: ptr(int64(999))})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AlcanceDePermisos(t *testing.T) {
	f := newAPIFixture(t)

	// user.read UNDERPRIVILEGED: el barman ve al cliente (rol descendiente)
	resp, _ := f.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", f.clientID), f.barmanHeader, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// ...pero no puede listar a todos
	resp, _ = f.do(t, http.MethodGet, "/api/user", f.barmanHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// order.read SELF: el cliente no ve pedidos ajenos
	otherBasket, err := f.orderOf(t, f.barmanID)
	require.NoError(t, err)
	resp, _ = f.do(t, http.MethodGet, fmt.Sprintf("/api/order/%d", otherBasket), f.clientHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// y su listado solo contiene los suyos
	_, _ = f.do(t, http.MethodGet, "/api/order/basket", f.clientHeader, nil)
	resp, body := f.do(t, http.MethodGet, "/api/order", f.clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.OrderListResponse](t, body)
	require.Len(t, list.Items, 1)
	assert.Equal(t, f.clientID, list.Items[0].ClientID)

	// sin user.read el cliente recibe 403 en /user/:id
	resp, _ = f.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", f.barmanID), f.clientHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_GestionDePedidos_AlcanceSelf(t *testing.T) {
	f := newAPIFixture(t)

	// el cliente recibe order.manage con alcance SELF y vuelve a entrar para llevarlo en el token
	resp, body := f.do(t, http.MethodPost, fmt.Sprintf("/api/role/%d/permissions", f.clientRole), f.barmanHeader,
		dto.PermissionRequest{Name: entity.PermOrderManage, LoginType: int(entity.LoginNormal), Range: int(entity.RangeSelf)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	clientHeader := "Bearer " + f.login(t, "card_id:CARD-C", "secreto123").Token

	other, err := f.orderOf(t, f.barmanID)
	require.NoError(t, err)

	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/order/cancel/%d", other), clientHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/order/finish/%d", other), clientHeader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))

	o, err := f.store.Orders().GetByID(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInBasket, o.Status)
	assert.Nil(t, o.BarmanID)

	// sobre su propio pedido el alcance SELF basta
	_, body = f.do(t, http.MethodGet, "/api/order/basket", clientHeader, nil)
	own := decode[dto.OrderResponse](t, body)
	resp, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/order/cancel/%d", own.ID), clientHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, entity.OrderStatusCancelled.String(), decode[dto.OrderResponse](t, body).Status)

	// pedido inexistente: 404 antes de comprobar el alcance
	resp, _ = f.do(t, http.MethodPut, "/api/order/finish/9999", clientHeader, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_LineaDesbordada_400(t *testing.T) {
	f := newAPIFixture(t)
	_, _ = f.do(t, http.MethodPost, "/api/recharge", f.barmanHeader, dto.CreateRechargeRequest{ClientID: f.clientID, Value: 100})

	resp, body := f.do(t, http.MethodPut, "/api/order/basket/items/1?quantity=4611686018427387904&unit_price=3", f.clientHeader, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	_, body = f.do(t, http.MethodGet, "/api/user/me", f.clientHeader, nil)
	assert.EqualValues(t, 100, decode[dto.UserResponse](t, body).Balance)
}

func (f *apiFixture) orderOf(t *testing.T, clientID int64) (int64, error) {
	t.Helper()
	o := &entity.Order{ClientID: clientID, Status: entity.OrderStatusInBasket}
	err := f.store.Orders().Create(context.Background(), o)
	return o.ID, err
}

func TestAPI_Login(t *testing.T) {
	f := newAPIFixture(t)

	partial := f.login(t, "card_id:CARD-C", "")
	assert.Equal(t, int(entity.LoginPartial), partial.LoginType)
	assert.Equal(t, []string{"order.read.0"}, partial.Permissions)

	renewed := f.login(t, "token:"+partial.Token, "")
	assert.Equal(t, int(entity.LoginPartial), renewed.LoginType)
	assert.Equal(t, f.clientID, renewed.UserID)

	resp, _ := f.do(t, http.MethodPost, "/api/auth/token", "", dto.LoginRequest{Username: "ana", Password: "secreto123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/auth/token", "", dto.LoginRequest{Username: "username:ana", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// basic: permisos PASSWORD del rol barman
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("luis:secreto123"))
	resp, _ = f.do(t, http.MethodGet, "/api/role", basic, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPost, "/api/role", basic, dto.CreateRoleRequest{Name: "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// historial (requiere user.read): fixture + 2 logins correctos de este test
	resp, body := f.do(t, http.MethodGet, "/api/auth/history", f.barmanHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[[]dto.LoginHistoryEntry](t, body)
	require.Len(t, hist, 4)
	assert.Equal(t, auth.MethodToken, hist[0].Method)
}

func TestAPI_Health(t *testing.T) {
	f := newAPIFixture(t)
	resp, body := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func ptr[T any](v T) *T { return &v }
