package webgpu

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// normalizePermuteShader converts interleaved uint8 HWC pixels into planar
// float32 CHW values in one pass: dst[k][p] = f32(src[p][k]) * alpha[k] + beta[k].
// WGSL has no 8-bit storage type, so pixels arrive packed four to a u32 and
// are unpacked per byte. Channels is limited to 4 (vec4 params).
const normalizePermuteShader = `
struct Params {
    width: u32,
    height: u32,
    channels: u32,
    _pad: u32,
    alpha: vec4<f32>,
    beta: vec4<f32>,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let p = global_id.x;
    let plane = params.width * params.height;
    if (p >= plane) {
        return;
    }

    let c = params.channels;
    for (var k: u32 = 0u; k < c; k = k + 1u) {
        let i = p * c + k;
        let word = src[i / 4u];
        let v = f32((word >> ((i % 4u) * 8u)) & 0xffu);
        dst[k * plane + p] = v * params.alpha[k] + params.beta[k];
    }
}
`
