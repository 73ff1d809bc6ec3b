package hmtmodels

// Device statuses.
const (
	DeviceOn  = "on"
	DeviceOff = "off"
)

// Device types.
const (
	DeviceTypeLight      = "light"
	DeviceTypeHVAC       = "hvac"
	DeviceTypeThermostat = "thermostat"
	DeviceTypeAppliance  = "appliance"
	DeviceTypeWater      = "water"
	DeviceTypeSecurity   = "security"
)

// Device is a togglable household device record. IDs are stable for the
// process lifetime; toggling flips Status and changes nothing else.
type Device struct {
	ID                int64   `json:"id" db:"device_id"`
	Name              string  `json:"name" db:"name"`
	Type              string  `json:"type" db:"device_type"`
	Status            string  `json:"status" db:"status"`
	EnergyConsumption float64 `json:"energy_consumption" db:"energy_consumption"`
}

// SeedDevices returns the default device set installed at startup.
// Seeding uses upsert semantics, so existing rows are never overwritten.
func SeedDevices() []Device {
	return []Device{
		{ID: 1, Name: "Living Room Light", Type: DeviceTypeLight, Status: DeviceOn, EnergyConsumption: 15.5},
		{ID: 2, Name: "Air Conditioner", Type: DeviceTypeHVAC, Status: DeviceOn, EnergyConsumption: 850.0},
		{ID: 3, Name: "Smart Thermostat", Type: DeviceTypeThermostat, Status: DeviceOn, EnergyConsumption: 25.0},
		{ID: 4, Name: "Kitchen Appliances", Type: DeviceTypeAppliance, Status: DeviceOn, EnergyConsumption: 120.0},
		{ID: 5, Name: "Water Heater", Type: DeviceTypeWater, Status: DeviceOn, EnergyConsumption: 400.0},
		{ID: 6, Name: "Security System", Type: DeviceTypeSecurity, Status: DeviceOn, EnergyConsumption: 35.0},
	}
}
