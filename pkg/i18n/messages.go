package i18n

// spanish maps every English message key to its Spanish text.
var spanish = map[string]string{
	// error taxonomy
	"resource not found":                      "Recurso no encontrado",
	"a record with this value already exists": "Ya existe un registro con este valor",
	"unauthorized":                            "No autorizado",
	"bad request":                             "Solicitud incorrecta",
	"related record does not exist":           "El registro relacionado no existe",
	"invalid input":                           "Entrada inválida",
	"internal server error":                   "Error interno del servidor",
	"file too large":                          "El archivo es demasiado grande",
	"unsupported media type":                  "Tipo de archivo no soportado",
	"rate limit exceeded":                     "Límite de solicitudes excedido",
	"validation failed":                       "La validación falló",

	// auth
	"authentication required":  "Autenticación requerida",
	"insufficient permissions": "Permisos insuficientes",
	"invalid session":          "Sesión inválida",

	// media
	"media not found":                           "Medio no encontrado",
	"you are not allowed to modify this media":  "No tienes permiso para modificar este medio",
	"file is required":                          "El archivo es obligatorio",
	"file is empty":                             "El archivo está vacío",
	"file exceeds the maximum upload size":      "El archivo excede el tamaño máximo permitido",
	"file type could not be determined":         "No se pudo determinar el tipo de archivo",
	"file type is not allowed":                  "Tipo de archivo no permitido",
	"failed to store file":                      "Error al almacenar el archivo",
	"object does not exist in storage":          "El objeto no existe en el almacenamiento",
	"media with this object key already exists": "Ya existe un medio con esta clave de objeto",
	"invalid multipart form":                    "Formulario multipart inválido",

	// posts
	"post not found":                          "Publicación no encontrada",
	"you are not allowed to modify this post": "No tienes permiso para modificar esta publicación",
	"referenced media does not exist":         "El medio referenciado no existe",

	// users
	"user not found":                      "Usuario no encontrado",
	"user with this email already exists": "Ya existe un usuario con este correo",

	// request parsing
	"invalid request body":             "Cuerpo de solicitud inválido",
	"nothing to update":                "No hay campos para actualizar",
	"mutations must be sent with POST": "Las mutaciones deben enviarse con POST",
}
