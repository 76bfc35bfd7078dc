package travel

type CreateVehicleRequest struct {
	Name         string        `json:"name" binding:"required,min=1,max=100"`
	Type         VehicleType   `json:"type" binding:"required,oneof=bus car van truck"`
	Registration string        `json:"registration" binding:"required,min=2,max=20"`
	Capacity     int           `json:"capacity" binding:"required,min=1,max=100"`
	Status       VehicleStatus `json:"status" binding:"omitempty,oneof=active maintenance inactive"`
}

type UpdateVehicleRequest struct {
	Name         *string        `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Type         *VehicleType   `json:"type,omitempty" binding:"omitempty,oneof=bus car van truck"`
	Registration *string        `json:"registration,omitempty" binding:"omitempty,min=2,max=20"`
	Capacity     *int           `json:"capacity,omitempty" binding:"omitempty,min=1,max=100"`
	Status       *VehicleStatus `json:"status,omitempty" binding:"omitempty,oneof=active maintenance inactive"`
}

type VehicleQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=bus car van truck"`
	Status string `form:"status" binding:"omitempty,oneof=active maintenance inactive"`
	Search string `form:"search"`
}

type CreateContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Role  string `json:"role" binding:"max=60"`
	Phone string `json:"phone" binding:"omitempty,min=5,max=20"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes" binding:"max=1000"`
}

type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	Role  *string `json:"role,omitempty" binding:"omitempty,max=60"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,min=5,max=20"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Notes *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}
