package router

import (
	"hostel_manager/constants"
	"hostel_manager/handler"
	"hostel_manager/middleware"
	"hostel_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, h *handler.Handler) {
	protected := middleware.Protected([]byte(h.Cfg.JWTSecret))
	admin := middleware.RequireRole(constants.ROLE_ADMIN)
	student := middleware.RequireRole(constants.ROLE_STUDENT)

	api := app.Group("/api", middleware.RequestID())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Register(), h.Register)
	auth.Post("/login", validate.Login(), h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", protected, h.Me)

	rooms := v1.Group("/rooms", protected)
	rooms.Get("/", h.GetRooms)
	rooms.Get("/:roomId", validate.GetById("roomId"), h.GetRoomById)
	rooms.Get("/:roomId/occupancy", validate.GetById("roomId"), h.GetRoomOccupancy)
	rooms.Post("/", admin, validate.RoomInput(), h.CreateRoom)
	rooms.Put("/:roomId", admin, validate.GetById("roomId"), validate.RoomInput(), h.EditRoom)
	rooms.Delete("/:roomId", admin, validate.GetById("roomId"), h.DeleteRoom)
	rooms.Put("/:roomId/allocate/:studentId", admin, validate.GetById("roomId", "studentId"), h.AllocateRoom)
	rooms.Put("/:roomId/deallocate", admin, validate.GetById("roomId"), h.DeallocateRoom)
	rooms.Put("/:roomId/deallocate/:studentId", admin, validate.GetById("roomId", "studentId"), h.DeallocateStudent)

	adminGroup := v1.Group("/admin", protected, admin)
	adminGroup.Get("/rooms/report", h.RoomReport)

	students := v1.Group("/students", protected, admin)
	students.Get("/", h.GetStudents)
	students.Get("/unhoused", h.GetUnhousedStudents)
	students.Get("/:studentId", validate.GetById("studentId"), h.GetStudentById)
	students.Post("/:userId", validate.GetById("userId"), h.CreateStudentForUser)
	students.Delete("/:studentId", validate.GetById("studentId"), h.DeleteStudent)
	students.Put("/:studentId/unassign", validate.GetById("studentId"), h.UnassignStudent)

	v1.Get("/student/profile", protected, student, h.StudentProfile)

	bookings := v1.Group("/room-booking-requests", protected)
	bookings.Post("/", validate.CreateBooking(), h.CreateBookingRequest)
	bookings.Get("/", validate.BookingFilter(), h.GetBookingRequests)
	bookings.Get("/:id", validate.GetById("id"), h.GetBookingRequestById)
	bookings.Put("/:id/cancel", student, validate.GetById("id"), h.CancelBookingRequest)
	bookings.Put("/:id", admin, validate.GetById("id"), validate.ResolveBooking(), h.ResolveBookingRequest)
	bookings.Delete("/:id", admin, validate.GetById("id"), h.DeleteBookingRequest)

	maintenance := v1.Group("/maintenance-requests", protected)
	maintenance.Post("/", student, validate.CreateMaintenance(), h.CreateMaintenanceRequest)
	maintenance.Get("/", validate.MaintenanceFilter(), h.GetMaintenanceRequests)
	maintenance.Get("/:id", validate.GetById("id"), h.GetMaintenanceRequestById)
	maintenance.Put("/:id", admin, validate.GetById("id"), validate.UpdateMaintenance(), h.UpdateMaintenanceRequest)
	maintenance.Delete("/:id", admin, validate.GetById("id"), h.DeleteMaintenanceRequest)

	notices := v1.Group("/notices", protected)
	notices.Get("/", h.GetNotices)
	notices.Post("/", admin, validate.Notice(), h.CreateNotice)
	notices.Put("/:id", admin, validate.GetById("id"), validate.Notice(), h.EditNotice)
	notices.Delete("/:id", admin, validate.GetById("id"), h.DeleteNotice)

	ws := v1.Group("/ws", protected, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/rooms", websocket.New(h.RoomFeed))
}
