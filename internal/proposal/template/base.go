package template

// baseTemplate is the canonical two-page document structure. Theme variants
// are derived from it by literal token substitution over the color and font
// tokens in the stylesheet; the section structure itself never changes per
// theme. Marker comments label sections for maintainers and are stripped
// from rendered output.
const baseTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{proposal.title}}</title>
<style>
:root {
  --primary: #2563eb;
  --primary-dark: #1e40af;
  --surface: #f8fafc;
  --ink: #111827;
  --muted: #6b7280;
  --rule: #e5e7eb;
  --font: 'Inter', sans-serif;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  padding: 40px;
  font-family: var(--font), 'Helvetica Neue', Arial, sans-serif;
  color: var(--ink);
  background: #ffffff;
}
.page { max-width: 860px; margin: 0 auto; position: relative; }
.page + .page { page-break-before: always; margin-top: 64px; }
.watermark {
  position: absolute;
  top: 40%;
  left: 0;
  right: 0;
  text-align: center;
  font-size: 72px;
  color: var(--rule);
  opacity: 0.5;
  transform: rotate(-24deg);
  pointer-events: none;
}
.header {
  display: flex;
  justify-content: space-between;
  align-items: flex-start;
  border-bottom: 3px solid var(--primary);
  padding-bottom: 20px;
  margin-bottom: 28px;
}
.header img { max-height: 56px; }
.header .meta { text-align: right; font-size: 13px; color: var(--muted); }
.header .meta strong { color: var(--ink); font-size: 15px; }
.hero { background: var(--surface); border-radius: 8px; padding: 28px; margin-bottom: 28px; }
.hero h1 { margin: 0 0 6px; font-size: 28px; color: var(--primary-dark); }
.hero .client { color: var(--muted); font-size: 15px; }
.hero .amount { font-size: 24px; font-weight: 700; color: var(--primary); margin-top: 12px; }
.section-title {
  font-size: 12px;
  letter-spacing: 0.08em;
  text-transform: uppercase;
  color: var(--muted);
  margin: 28px 0 12px;
}
.services { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.card { border: 1px solid var(--rule); border-radius: 8px; padding: 18px; }
.card h3 { margin: 0 0 4px; font-size: 16px; }
.card .price { color: var(--primary); font-weight: 600; margin-bottom: 8px; }
.card p { margin: 0 0 10px; font-size: 13px; color: var(--muted); }
.card ul { margin: 0 0 10px; padding-left: 18px; font-size: 13px; }
.card .timeline { font-size: 12px; color: var(--muted); }
.overview { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; font-size: 13px; }
.overview .cell strong { display: block; margin-bottom: 4px; }
table.pricing { width: 100%; border-collapse: collapse; font-size: 14px; }
table.pricing th, table.pricing td {
  padding: 10px;
  border-bottom: 1px solid var(--rule);
  text-align: left;
}
table.pricing td.amount, table.pricing th.amount { text-align: right; }
table.pricing th {
  text-transform: uppercase;
  font-size: 11px;
  letter-spacing: 0.04em;
  color: var(--muted);
}
table.pricing tr.total td {
  border-top: 2px solid var(--primary);
  border-bottom: none;
  font-weight: 700;
  font-size: 16px;
  color: var(--primary-dark);
}
.pay-methods { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.pay-card { border: 1px solid var(--rule); border-radius: 8px; padding: 18px; font-size: 13px; }
.pay-card h3 { margin: 0 0 6px; font-size: 15px; color: var(--primary-dark); }
.pay-card .fee { color: var(--muted); font-size: 12px; }
.qr-row { display: flex; gap: 32px; margin-top: 20px; }
.qr-row .qr { text-align: center; font-size: 12px; color: var(--muted); }
.qr-row img { width: 128px; height: 128px; }
.steps { counter-reset: step; font-size: 14px; }
.steps .step { display: flex; gap: 12px; margin-bottom: 10px; }
.steps .step .num {
  background: var(--primary);
  color: #ffffff;
  border-radius: 50%;
  width: 24px;
  height: 24px;
  line-height: 24px;
  text-align: center;
  font-size: 13px;
  flex-shrink: 0;
}
.footer {
  border-top: 1px solid var(--rule);
  margin-top: 32px;
  padding-top: 16px;
  font-size: 12px;
  color: var(--muted);
}
</style>
</head>
<body>
<!-- page 1 -->
<div class="page">
{{#if watermark}}<div class="watermark">{{watermark}}</div>{{/if}}
<!-- section: header -->
<div class="header">
  <div class="brand">
    {{#if company.logo}}<img src="{{company.logo}}" alt="Logo" />{{/if}}
  </div>
  <div class="meta">
    <strong>Proposal {{proposal.number}}</strong><br />
    Prepared {{proposal.created_date}}
  </div>
</div>
<!-- section: hero -->
<div class="hero">
  <h1>{{proposal.title}}</h1>
  <div class="client">Prepared for {{company.name}}{{#if contact.name}}, attn. {{contact.name}}{{/if}}</div>
  <div class="amount">{{pricing.total}}</div>
</div>
<!-- section: services -->
<div class="section-title">Services</div>
<div class="services">
{{#each items}}
  <div class="card">
    <h3>{{name}}</h3>
    <div class="price">{{total}}</div>
    <p>{{description}}</p>
    <ul>
{{#each deliverables}}
      <li>{{this}}</li>
{{/each}}
    </ul>
    <div class="timeline">Estimated timeline: {{timeline}}</div>
  </div>
{{/each}}
</div>
<!-- section: overview -->
<div class="section-title">Project Overview</div>
<div class="overview">
  <div class="cell"><strong>Scope</strong>{{overview.scope}}</div>
  <div class="cell"><strong>Methodology</strong>{{overview.methodology}}</div>
  <div class="cell"><strong>Support</strong>{{overview.support}}</div>
  <div class="cell"><strong>Technical</strong>{{specs.development}} {{specs.security}}</div>
</div>
<!-- section: pricing -->
<div class="section-title">Pricing Breakdown</div>
<table class="pricing">
  <thead>
    <tr><th>Service</th><th class="amount">Amount</th></tr>
  </thead>
  <tbody>
{{#each items}}
    <tr><td>{{name}}</td><td class="amount">{{total}}</td></tr>
{{/each}}
    <tr><td>Subtotal</td><td class="amount">{{pricing.subtotal}}</td></tr>
    <tr><td>Tax ({{pricing.tax_rate_pct}}%)</td><td class="amount">{{pricing.tax}}</td></tr>
    <tr class="total"><td>Total</td><td class="amount">{{pricing.total}}</td></tr>
  </tbody>
</table>
</div>
<!-- page 2 -->
<div class="page">
<!-- section: payment -->
<div class="section-title">Payment Methods</div>
<div class="pay-methods">
  <div class="pay-card">
    <h3>Pay Online</h3>
    <p>Pay instantly by card or wallet through our secure payment page.</p>
    {{#if payment.link}}<p><a href="{{payment.link}}">{{payment.link}}</a></p>{{/if}}
    <div class="fee">Card processing fees apply.</div>
  </div>
  <div class="pay-card">
    <h3>Bank Transfer</h3>
    <p>Prefer a direct transfer? Request our bank details and reference the proposal number.</p>
    <div class="fee">No processing fee.</div>
  </div>
</div>
<div class="qr-row">
  {{#if payment.qr}}<div class="qr"><img src="{{payment.qr}}" alt="Payment QR" /><br />Scan to pay</div>{{/if}}
  {{#if acceptance.qr}}<div class="qr"><img src="{{acceptance.qr}}" alt="Acceptance QR" /><br />Scan to accept</div>{{/if}}
</div>
<!-- section: next steps -->
<div class="section-title">Next Steps</div>
<div class="steps">
  <div class="step"><div class="num">1</div><div>Review this proposal and reach out with any questions.</div></div>
  <div class="step"><div class="num">2</div><div>Accept the proposal{{#if acceptance.link}} at <a href="{{acceptance.link}}">{{acceptance.link}}</a>{{/if}} to reserve your start date.</div></div>
  <div class="step"><div class="num">3</div><div>Complete the initial payment and we schedule the kickoff call.</div></div>
</div>
<!-- section: footer -->
<div class="footer">
  {{#if contact.name}}Your contact: {{contact.name}}{{#if contact.email}} · {{contact.email}}{{/if}}<br />{{/if}}
  This proposal is valid until {{proposal.expiry_date}}. Proposal {{proposal.number}} · {{company.name}}
</div>
</div>
</body>
</html>`
