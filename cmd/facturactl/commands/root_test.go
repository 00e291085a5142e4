package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/recepcion-activa/cmd/facturactl/commands"
	"github.com/jhoicas/recepcion-activa/internal/application/dto"
	"github.com/jhoicas/recepcion-activa/pkg/config"
	pkgjwt "github.com/jhoicas/recepcion-activa/pkg/jwt"
)

const facturaJSON = `{
	"tipoFactura": "simplificada",
	"serie": "T",
	"fechaExpedicion": "2024-03-15",
	"emisor": {"nombreORazonSocial": "Taller Martínez S.L.", "NIF": "B12345674", "domicilio": {"calle": "Calle Mayor 3", "codigoPostal": "28013", "municipio": "Madrid"}},
	"cliente": {"tipo": "particular", "nombreORazonSocial": "Ana López", "pais": "España"},
	"lineas": [{"descripcion": "Cambio de aceite", "cantidad": "1", "precioUnitario": "40", "tipoIVA": 21}]
}`

func testConfig() *config.Config {
	return &config.Config{
		JWT:         config.JWTConfig{Secret: "test-secret-key-for-unit-tests", Expiration: 60, Issuer: "test"},
		Facturacion: config.FacturacionConfig{SerieDefecto: "T", Moneda: "EUR"},
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCmd(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcular_DesdeArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factura.json")
	require.NoError(t, os.WriteFile(path, []byte(facturaJSON), 0o600))

	out, err := run(t, "", "calcular", path)
	require.NoError(t, err)

	var res dto.CalculoResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Valida)
	assert.Equal(t, "48.4", res.Factura.Totales.TotalFactura.String())
}

func TestCalcular_DesdeStdin(t *testing.T) {
	out, err := run(t, facturaJSON, "calcular", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"valida": true`)
}

func TestCalcular_JSONInvalido(t *testing.T) {
	_, err := run(t, "{no es json", "calcular", "-")
	assert.Error(t, err)
}

func TestValidar(t *testing.T) {
	out, err := run(t, facturaJSON, "validar", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Factura válida")

	invalida := strings.Replace(facturaJSON, `"descripcion": "Cambio de aceite"`, `"descripcion": ""`, 1)
	out, err = run(t, invalida, "validar", "-")
	assert.ErrorIs(t, err, commands.ErrFacturaInvalida)
	assert.Contains(t, out, "- La descripción de la línea 1 es obligatoria")
}

func TestNIF(t *testing.T) {
	out, err := run(t, "", "nif", "x1234567l")
	require.NoError(t, err)
	assert.Contains(t, out, "X1234567L: NIE")

	_, err = run(t, "", "nif", "1234")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	out, err := run(t, "", "token", "--user", "u-1", "--name", "Recepción")
	require.NoError(t, err)

	id, err := pkgjwt.Parse("test-secret-key-for-unit-tests", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "Recepción", id.Name)

	_, err = run(t, "", "token")
	assert.Error(t, err, "--user es obligatorio")
}
