package decl

// Builtin names of the target shading dialect. The analyzer does not model
// the standard library: calls to known builtins resolve silently, and
// builtin type names never form call-site references (float(x) — это каст).
// Список собран из <metal_stdlib> и родственных заголовков.

var builtinTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "uchar": true,
	"short": true, "ushort": true, "int": true, "uint": true,
	"long": true, "ulong": true, "size_t": true, "ptrdiff_t": true,
	"half": true, "float": true, "double": true,
	"unsigned": true, "signed": true,

	"bool2": true, "bool3": true, "bool4": true,
	"char2": true, "char3": true, "char4": true,
	"uchar2": true, "uchar3": true, "uchar4": true,
	"short2": true, "short3": true, "short4": true,
	"ushort2": true, "ushort3": true, "ushort4": true,
	"int2": true, "int3": true, "int4": true,
	"uint2": true, "uint3": true, "uint4": true,
	"half2": true, "half3": true, "half4": true,
	"float2": true, "float3": true, "float4": true,
	"float2x2": true, "float3x3": true, "float4x4": true,
	"half2x2": true, "half3x3": true, "half4x4": true,
}

var builtinFunctions = map[string]bool{
	"abs": true, "clamp": true, "min": true, "max": true, "mix": true,
	"saturate": true, "sign": true, "step": true, "smoothstep": true,
	"floor": true, "ceil": true, "fract": true, "round": true, "trunc": true,
	"sqrt": true, "rsqrt": true, "pow": true, "exp": true, "exp2": true,
	"log": true, "log2": true, "fma": true, "fmod": true,
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true,
	"atan": true, "atan2": true, "sinh": true, "cosh": true, "tanh": true,
	"dot": true, "cross": true, "length": true, "length_squared": true,
	"distance": true, "normalize": true, "reflect": true, "refract": true,
	"all": true, "any": true, "select": true, "isnan": true, "isinf": true,
	"threadgroup_barrier": true, "simdgroup_barrier": true,
	"simd_sum": true, "simd_min": true, "simd_max": true,
	"atomic_load_explicit": true, "atomic_store_explicit": true,
	"atomic_fetch_add_explicit": true,
}

// управляющие конструкции и прочие слова, за которыми скобка — не вызов
var controlFlowWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "do": true,
	"sizeof": true, "alignof": true, "decltype": true,
	"static_cast": true, "reinterpret_cast": true, "as_type": true,
}

// IsBuiltinType reports whether name is a scalar/vector/matrix builtin type.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}

// IsBuiltinFunction reports whether name is a known stdlib function.
func IsBuiltinFunction(name string) bool {
	return builtinFunctions[name]
}
